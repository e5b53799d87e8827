package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429", &StatusError{Code: 429, Message: "slow down"}, true},
		{"503", &StatusError{Code: 503, Message: "unavailable"}, true},
		{"wrapped 429", fmt.Errorf("call: %w", &StatusError{Code: 429}), true},
		{"500", &StatusError{Code: 500, Message: "internal"}, false},
		{"overloaded message", errors.New("The model is overloaded"), true},
		{"quota message", errors.New("Quota exceeded for project"), true},
		{"plain", errors.New("connection reset"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}

type countingGenerator struct {
	calls int
}

func (c *countingGenerator) Generate(ctx context.Context, req *Request) (*Response, error) {
	c.calls++
	return &Response{Text: "ok"}, nil
}

func TestWithRateLimit(t *testing.T) {
	next := &countingGenerator{}
	g := WithRateLimit(next, rate.NewLimiter(rate.Limit(0.001), 2))

	for i := 0; i < 2; i++ {
		_, err := g.Generate(context.Background(), &Request{})
		require.NoError(t, err)
	}

	_, err := g.Generate(context.Background(), &Request{})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 2, next.calls)
}

func TestWithRateLimitNilLimiter(t *testing.T) {
	next := &countingGenerator{}
	assert.Same(t, next, WithRateLimit(next, nil))
}

func TestToGenaiContentsMapsToolRole(t *testing.T) {
	contents := []Content{
		TextContent(RoleUser, "hi"),
		{Role: RoleModel, Parts: []Part{{FunctionCall: &FunctionCall{Name: "query_yelp_ai", Args: map[string]any{"term": "sushi"}}}}},
		{Role: RoleTool, Parts: []Part{{FunctionResponse: &FunctionResponse{Name: "query_yelp_ai", Response: map[string]any{"content": "{}"}}}}},
	}

	out := toGenaiContents(contents)
	require.Len(t, out, 3)
	assert.Equal(t, "user", out[0].Role)
	assert.Equal(t, "hi", out[0].Parts[0].Text)
	assert.Equal(t, "model", out[1].Role)
	assert.Equal(t, "sushi", out[1].Parts[0].FunctionCall.Args["term"])
	assert.Equal(t, "user", out[2].Role)
	assert.Equal(t, "query_yelp_ai", out[2].Parts[0].FunctionResponse.Name)
}

func TestBuildConfig(t *testing.T) {
	temp := float32(0.7)
	cfg := buildConfig(&Request{SystemInstruction: "be brief", JSON: true, Temperature: &temp})
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be brief", cfg.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Nil(t, cfg.Tools)

	cfg = buildConfig(&Request{Tools: []*genai.FunctionDeclaration{{Name: "make_reservation"}}})
	assert.Nil(t, cfg.SystemInstruction)
	assert.Empty(t, cfg.ResponseMIMEType)
	require.Len(t, cfg.Tools, 1)
	assert.Equal(t, "make_reservation", cfg.Tools[0].FunctionDeclarations[0].Name)
}

func TestClassifyError(t *testing.T) {
	err := classifyError(genai.APIError{Code: 503, Message: "overloaded"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 503, se.Code)

	err = classifyError(errors.New("dial tcp: timeout"))
	assert.False(t, errors.As(err, &se))
}
