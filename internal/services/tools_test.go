package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SatyaPujith/Spotlight/internal/llm"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/models"
	"github.com/SatyaPujith/Spotlight/internal/yelp"
)

func TestToolExecutorKeepsCallOrder(t *testing.T) {
	e := NewToolExecutor(yelp.NewDirectory(nil, logger.Nop()), logger.Nop())

	fcs := []llm.FunctionCall{
		{ID: "1", Name: ToolQueryYelpAI, Args: map[string]any{"term": "ramen", "location": "Los Angeles"}},
		{ID: "2", Name: ToolMakeReservation, Args: map[string]any{"businessId": "x", "date": "2025-01-01", "time": "18:00", "partySize": "2"}},
		{ID: "3", Name: ToolQueryYelpAI, Args: map[string]any{"term": "chaat", "location": "Delhi"}},
		{ID: "4", Name: "order_pizza"},
	}

	out, err := e.Execute(context.Background(), fcs)
	require.NoError(t, err)
	require.Len(t, out, 4)
	for i, r := range out {
		assert.Equal(t, fcs[i].ID, r.ID)
		assert.Equal(t, fcs[i].Name, r.Name)
	}

	la := out[0].Response["content"].(*models.SearchResult)
	assert.Equal(t, "Los Angeles", la.Businesses[0].Location.City)
	assert.NotContains(t, out[0].Response, "unavailable")

	assert.Equal(t, ReservationRequest{BusinessID: "x", Date: "2025-01-01", Time: "18:00", PartySize: 2}, out[1].Response["details"])

	assert.Equal(t, true, out[2].Response["unavailable"])
	assert.NotEmpty(t, out[2].Response["message"])
	delhi := out[2].Response["content"].(*models.SearchResult)
	assert.Empty(t, delhi.Businesses)

	assert.Contains(t, out[3].Response, "error")
}

func TestQueryYelpAIWeakArgs(t *testing.T) {
	e := NewToolExecutor(yelp.NewDirectory(nil, logger.Nop()), logger.Nop())

	resp := e.queryYelpAI(context.Background(), map[string]any{"location": "Chicago", "price": float64(2)})
	result := resp["content"].(*models.SearchResult)
	assert.Len(t, result.Businesses, 3)

	var params yelp.SearchParams
	require.NoError(t, decodeArgs(map[string]any{"location": "Chicago", "price": float64(2)}, &params))
	assert.Equal(t, "2", params.Price)
}

func TestExecuteCanceledContext(t *testing.T) {
	e := NewToolExecutor(yelp.NewDirectory(nil, logger.Nop()), logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, []llm.FunctionCall{{Name: ToolQueryYelpAI, Args: map[string]any{"location": "SF"}}})
	assert.ErrorIs(t, err, context.Canceled)
}
