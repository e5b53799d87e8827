package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiClient calls the Gemini API through the genai SDK
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a client for the given API key. timeout bounds each call;
// zero leaves the caller's context in charge.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model, timeout: timeout}, nil
}

// Model returns the configured model name
func (g *GeminiClient) Model() string {
	return g.model
}

// Generate issues one GenerateContent call
func (g *GeminiClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, toGenaiContents(req.Contents), buildConfig(req))
	if err != nil {
		return nil, classifyError(err)
	}

	out := &Response{Text: resp.Text()}
	for _, fc := range resp.FunctionCalls() {
		out.FunctionCalls = append(out.FunctionCalls, FunctionCall{ID: fc.ID, Name: fc.Name, Args: fc.Args})
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		out.Content = fromGenaiContent(resp.Candidates[0].Content)
	}
	return out, nil
}

func buildConfig(req *Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: req.Temperature,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}}
	}
	if req.ResponseSchema != nil || req.JSON {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.ResponseSchema
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: req.Tools}}
	}
	return cfg
}

// classifyError lifts SDK API errors into StatusError so callers can inspect the code
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &StatusError{Code: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return fmt.Errorf("gemini generate: %w", err)
}

func toGenaiContents(contents []Content) []*genai.Content {
	out := make([]*genai.Content, 0, len(contents))
	for _, c := range contents {
		role := string(c.Role)
		// Gemini expects function responses in a user turn
		if c.Role == RoleTool {
			role = string(RoleUser)
		}
		gc := &genai.Content{Role: role}
		for _, p := range c.Parts {
			switch {
			case p.FunctionCall != nil:
				gc.Parts = append(gc.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   p.FunctionCall.ID,
					Name: p.FunctionCall.Name,
					Args: p.FunctionCall.Args,
				}})
			case p.FunctionResponse != nil:
				gc.Parts = append(gc.Parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       p.FunctionResponse.ID,
					Name:     p.FunctionResponse.Name,
					Response: p.FunctionResponse.Response,
				}})
			default:
				gc.Parts = append(gc.Parts, &genai.Part{Text: p.Text})
			}
		}
		out = append(out, gc)
	}
	return out
}

func fromGenaiContent(gc *genai.Content) Content {
	c := Content{Role: Role(gc.Role)}
	for _, p := range gc.Parts {
		if p == nil {
			continue
		}
		switch {
		case p.FunctionCall != nil:
			c.Parts = append(c.Parts, Part{FunctionCall: &FunctionCall{
				ID:   p.FunctionCall.ID,
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			}})
		case p.FunctionResponse != nil:
			c.Parts = append(c.Parts, Part{FunctionResponse: &FunctionResponse{
				ID:       p.FunctionResponse.ID,
				Name:     p.FunctionResponse.Name,
				Response: p.FunctionResponse.Response,
			}})
		default:
			c.Parts = append(c.Parts, Part{Text: p.Text})
		}
	}
	return c
}
