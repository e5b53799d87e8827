// Package llm is the boundary to the generative model. Conversation types are
// provider-neutral; response schemas and tool declarations use the genai types the
// Gemini API accepts.
package llm

import (
	"context"

	"google.golang.org/genai"
)

// Role of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	// RoleTool carries function responses back to the model
	RoleTool Role = "tool"
)

// FunctionCall is a tool invocation requested by the model
type FunctionCall struct {
	ID   string
	Name string
	Args map[string]any
}

// FunctionResponse is the result of executing a FunctionCall
type FunctionResponse struct {
	ID       string
	Name     string
	Response map[string]any
}

// Part is one element of a turn. Exactly one field is set.
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// Content is one turn of the conversation
type Content struct {
	Role  Role
	Parts []Part
}

// TextContent builds a single-part text turn
func TextContent(role Role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// Request is a single model call
type Request struct {
	SystemInstruction string
	Contents          []Content
	// ResponseSchema constrains the output to JSON of this shape
	ResponseSchema *genai.Schema
	// JSON asks for JSON output without a schema
	JSON        bool
	Tools       []*genai.FunctionDeclaration
	Temperature *float32
}

// Response is the model's answer to a Request
type Response struct {
	Text          string
	FunctionCalls []FunctionCall
	// Content is the model turn as returned, for replaying in a follow-up call
	Content Content
}

// Generator issues model calls
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}
