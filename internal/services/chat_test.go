package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SatyaPujith/Spotlight/internal/cache"
	"github.com/SatyaPujith/Spotlight/internal/llm"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/models"
	"github.com/SatyaPujith/Spotlight/internal/yelp"
)

type step struct {
	resp *llm.Response
	err  error
}

// scriptedGenerator answers calls from a fixed script and records every request
type scriptedGenerator struct {
	mu       sync.Mutex
	steps    []step
	requests []*llm.Request
}

func (g *scriptedGenerator) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if len(g.steps) == 0 {
		return nil, errors.New("unexpected upstream call")
	}
	s := g.steps[0]
	g.steps = g.steps[1:]
	return s.resp, s.err
}

func text(s string) step { return step{resp: &llm.Response{Text: s}} }

func fail(code int, msg string) step {
	return step{err: &llm.StatusError{Code: code, Message: msg}}
}

func calls(fcs ...llm.FunctionCall) step {
	return step{resp: &llm.Response{FunctionCalls: fcs}}
}

const recommendationJSON = `{"message":"Here are the best spots","type":"recommendation","businesses":[{"id":"lou","name":"Lou Malnati's","rating":4.6,"reviewCount":2310,"price":"$$","tags":["Deep dish"]}]}`

func newTestChatService(gen llm.Generator) (*ChatService, *cache.ResponseCache) {
	c := cache.New(5*time.Minute, 100)
	tools := NewToolExecutor(yelp.NewDirectory(nil, logger.Nop()), logger.Nop())
	return NewChatService(gen, c, tools, logger.Nop()), c
}

func TestRespondNotConfigured(t *testing.T) {
	svc, _ := newTestChatService(nil)
	_, err := svc.Respond(context.Background(), nil, "best tacos")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, svc.Configured())
}

func TestRespondDirectGenerationAndCache(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{text(recommendationJSON)}}
	svc, c := newTestChatService(gen)

	res, err := svc.Respond(context.Background(), nil, "Best pizza in Chicago")
	require.NoError(t, err)
	assert.Equal(t, PathDirect, res.Path)
	assert.Equal(t, models.IntelligenceRecommendation, res.Response.Type)
	require.Len(t, gen.requests, 1)
	assert.NotNil(t, gen.requests[0].ResponseSchema)
	assert.Empty(t, gen.requests[0].Tools)
	assert.True(t, strings.HasSuffix(gen.requests[0].SystemInstruction, directGenerationHint))
	assert.Equal(t, 1, c.Len())

	// same key after normalization, served without an upstream call
	res, err = svc.Respond(context.Background(), nil, "  best PIZZA in chicago ")
	require.NoError(t, err)
	assert.Equal(t, PathCached, res.Path)
	assert.Equal(t, "Lou Malnati's", res.Response.Businesses[0].Name)
	assert.Len(t, gen.requests, 1)
}

func TestRespondDirectFailureFallsThroughToTools(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		fail(500, "internal"),
		calls(llm.FunctionCall{ID: "c1", Name: ToolQueryYelpAI, Args: map[string]any{"term": "pizza", "location": "Chicago"}}),
		text(recommendationJSON),
	}}
	svc, c := newTestChatService(gen)

	res, err := svc.Respond(context.Background(), nil, "Best pizza in Chicago")
	require.NoError(t, err)
	assert.Equal(t, PathTools, res.Path)
	require.Len(t, gen.requests, 3)

	round1 := gen.requests[1]
	assert.Len(t, round1.Tools, 2)
	assert.Nil(t, round1.ResponseSchema)
	assert.Equal(t, systemInstruction, round1.SystemInstruction)

	round2 := gen.requests[2]
	assert.Empty(t, round2.SystemInstruction)
	assert.NotNil(t, round2.ResponseSchema)
	require.Len(t, round2.Contents, 3)
	assert.Equal(t, llm.RoleModel, round2.Contents[1].Role)
	assert.Equal(t, ToolQueryYelpAI, round2.Contents[1].Parts[0].FunctionCall.Name)

	toolTurn := round2.Contents[2]
	assert.Equal(t, llm.RoleTool, toolTurn.Role)
	fr := toolTurn.Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "c1", fr.ID)
	result, ok := fr.Response["content"].(*models.SearchResult)
	require.True(t, ok)
	assert.Len(t, result.Businesses, 3)
	assert.Equal(t, "Chicago", result.Businesses[0].Location.City)

	assert.Equal(t, 1, c.Len())
}

func TestRespondMalformedDirectOutputDemotes(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		text("not json at all"),
		text("Sure, here is what I found."),
		text(recommendationJSON),
	}}
	svc, _ := newTestChatService(gen)

	res, err := svc.Respond(context.Background(), nil, "coffee in SF")
	require.NoError(t, err)
	assert.Equal(t, PathNoTool, res.Path)
	require.Len(t, gen.requests, 3)
}

func TestRespondComplexWithoutToolCalls(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		text("no tools needed"),
		text(`{"message":"Tartine wins on pastries","type":"comparison","comparisonPoints":[{"attribute":"Pastries","businessA":"great","businessB":"good","winnerId":"a"}]}`),
	}}
	svc, _ := newTestChatService(gen)

	res, err := svc.Respond(context.Background(), []models.ChatTurn{{Role: "model", Text: "hi"}}, "compare Tartine and Arsicault")
	require.NoError(t, err)
	assert.Equal(t, PathNoTool, res.Path)
	require.Len(t, gen.requests, 2)
	assert.Len(t, gen.requests[0].Tools, 2)

	finalize := gen.requests[1]
	assert.Equal(t, systemInstruction, finalize.SystemInstruction)
	assert.NotNil(t, finalize.ResponseSchema)
	assert.Empty(t, finalize.Tools)
	assert.Len(t, finalize.Contents, 2)

	assert.Equal(t, "A", res.Response.ComparisonPoints[0].WinnerID)
}

func TestRespondRateLimitedUnavailableLocation(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		fail(429, "Resource has been exhausted"),
		fail(429, "Resource has been exhausted"),
	}}
	svc, c := newTestChatService(gen)

	res, err := svc.Respond(context.Background(), nil, "Find restaurants in Mumbai")
	require.NoError(t, err)
	assert.Equal(t, PathDegraded, res.Path)
	assert.Equal(t, models.IntelligenceIdle, res.Response.Type)
	assert.Contains(t, res.Response.Message, "not yet covered by Yelp")
	assert.Empty(t, res.Response.Businesses)
	assert.Equal(t, 0, c.Len())
}

func TestRespondOverloadedCoveredLocation(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		fail(500, "boom"),
		{err: errors.New("The model is overloaded. Please try again later.")},
	}}
	svc, c := newTestChatService(gen)

	res, err := svc.Respond(context.Background(), nil, "brunch in new york")
	require.NoError(t, err)
	assert.Equal(t, PathDegraded, res.Path)
	assert.Equal(t, models.IntelligenceRecommendation, res.Response.Type)
	require.Len(t, res.Response.Businesses, 1)
	assert.Equal(t, "Yelp's Top Pick", res.Response.Businesses[0].Name)
	assert.Equal(t, 0, c.Len())
}

func TestRespondTerminalError(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		calls(llm.FunctionCall{Name: ToolQueryYelpAI, Args: map[string]any{"location": "LA"}}),
		text(`{"type":"recommendation"}`),
	}}
	svc, c := newTestChatService(gen)

	_, err := svc.Respond(context.Background(), nil, "compare taco trucks")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.Equal(t, 0, c.Len())
}

func TestRespondMalformedReplyMentioningQuotaIsTerminal(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		text(""),
		text(`{"message":"Try again later","type":"quota overloaded"}`),
	}}
	svc, c := newTestChatService(gen)

	res, err := svc.Respond(context.Background(), nil, "compare taco trucks")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.Equal(t, 0, c.Len())
}

func TestRespondReservation(t *testing.T) {
	gen := &scriptedGenerator{steps: []step{
		calls(llm.FunctionCall{Name: ToolMakeReservation, Args: map[string]any{
			"businessId": "tartine", "date": "2025-03-01", "time": "19:30", "partySize": float64(4),
		}}),
		text(`{"message":"Booked!","type":"reservation","reservationDetails":{"businessId":"tartine","businessName":"Tartine","partySize":4,"time":"19:30","date":"2025-03-01","status":"confirmed"}}`),
	}}
	svc, _ := newTestChatService(gen)
	svc.tools.now = func() time.Time { return time.UnixMilli(1700000000000) }

	res, err := svc.Respond(context.Background(), nil, "Book Tartine for 4 at 7:30pm")
	require.NoError(t, err)
	assert.Equal(t, PathTools, res.Path)
	require.NotNil(t, res.Response.ReservationDetails)
	assert.Equal(t, 4, res.Response.ReservationDetails.PartySize)

	fr := gen.requests[1].Contents[2].Parts[0].FunctionResponse
	assert.Equal(t, "confirmed", fr.Response["status"])
	assert.Equal(t, "YELP_1700000000000", fr.Response["confirmation_id"])
	assert.Equal(t, "+1-555-YELP-RES", fr.Response["restaurant_phone"])
	assert.Equal(t, ReservationRequest{BusinessID: "tartine", Date: "2025-03-01", Time: "19:30", PartySize: 4}, fr.Response["details"])
}

func TestBuildContents(t *testing.T) {
	history := []models.ChatTurn{
		{Role: "user", Text: "hi"},
		{Role: "model", Text: "hello"},
		{Role: "assistant", Text: "odd role"},
	}
	contents := buildContents(history, "sushi?")
	require.Len(t, contents, 4)
	assert.Equal(t, llm.RoleUser, contents[0].Role)
	assert.Equal(t, llm.RoleModel, contents[1].Role)
	assert.Equal(t, llm.RoleUser, contents[2].Role)
	assert.Equal(t, "sushi?", contents[3].Parts[0].Text)
}
