package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/SatyaPujith/Spotlight/internal/cache"
	"github.com/SatyaPujith/Spotlight/internal/classifier"
	"github.com/SatyaPujith/Spotlight/internal/fallback"
	"github.com/SatyaPujith/Spotlight/internal/llm"
	"github.com/SatyaPujith/Spotlight/internal/models"
	"github.com/SatyaPujith/Spotlight/internal/telemetry"
)

var (
	ErrNotConfigured       = errors.New("generative model is not configured")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedOutput     = errors.New("malformed model output")
)

// Path is how a chat reply was produced
type Path string

const (
	PathCached   Path = "cached"
	PathDirect   Path = "direct"
	PathTools    Path = "tools"
	PathNoTool   Path = "no_tool"
	PathDegraded Path = "degraded"
)

// upstream rounds, used for spans and metrics
const (
	roundDirect     = "direct_generation"
	roundTools      = "tool_round_1"
	roundToolResult = "tool_round_2"
	roundFinalize   = "no_tool_finalize"
)

// ChatResult is a reply and the path that produced it
type ChatResult struct {
	Response  *models.IntelligenceResponse
	Path      Path
	RequestID string
}

type ChatService struct {
	generator llm.Generator
	cache     *cache.ResponseCache
	tools     *ToolExecutor
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewChatService wires the orchestrator. generator may be nil, in which case every
// turn fails with ErrNotConfigured.
func NewChatService(generator llm.Generator, responseCache *cache.ResponseCache, tools *ToolExecutor, log *zap.SugaredLogger) *ChatService {
	return &ChatService{
		generator: generator,
		cache:     responseCache,
		tools:     tools,
		log:       log,
		now:       time.Now,
	}
}

// Configured reports whether a generative model is available
func (s *ChatService) Configured() bool {
	return s.generator != nil
}

// Respond answers one chat turn.
//
// Simple messages try a single schema-constrained call first; any failure there
// moves on to the tool rounds. Rate-limit and overload errors in the tool rounds
// produce a degraded reply; any other failure is returned as ErrUpstreamUnavailable.
// Only replies produced by the model are cached.
func (s *ChatService) Respond(ctx context.Context, history []models.ChatTurn, message string) (*ChatResult, error) {
	if s.generator == nil {
		return nil, ErrNotConfigured
	}

	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID)

	if cached, ok := s.cache.Get(message); ok {
		chatCacheLookups.WithLabelValues("hit").Inc()
		chatTurnsTotal.WithLabelValues(string(PathCached)).Inc()
		log.Debugw("Returning cached response", "message", truncate(message, 50))
		return &ChatResult{Response: cached, Path: PathCached, RequestID: requestID}, nil
	}
	chatCacheLookups.WithLabelValues("miss").Inc()

	ctx, span := telemetry.StartSpan(ctx, "chat.respond")
	defer span.End()
	span.SetAttributes(attribute.String("chat.request_id", requestID))

	contents := buildContents(history, message)
	cls := classifier.Classify(message)
	span.SetAttributes(attribute.Bool("chat.simple", cls.Simple))

	if cls.Simple {
		resp, err := s.directGeneration(ctx, contents)
		if err == nil {
			return s.finish(span, requestID, message, resp, PathDirect), nil
		}
		log.Infow("Direct generation failed, falling back to tool-based approach", "error", err)
	}

	resp, path, err := s.toolRounds(ctx, log, contents)
	if err != nil {
		span.RecordError(err)
		// model-written text inside a malformed reply must not read as a quota error
		if !errors.Is(err, ErrMalformedOutput) && llm.IsTransient(err) {
			log.Warnw("Upstream rate limited or overloaded, using degraded reply", "error", err)
			span.SetAttributes(attribute.String("chat.path", string(PathDegraded)))
			chatTurnsTotal.WithLabelValues(string(PathDegraded)).Inc()
			return &ChatResult{Response: fallback.Degraded(message, s.now()), Path: PathDegraded, RequestID: requestID}, nil
		}
		span.SetStatus(codes.Error, "upstream unavailable")
		log.Errorw("Chat turn failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	return s.finish(span, requestID, message, resp, path), nil
}

func (s *ChatService) finish(span trace.Span, requestID, message string, resp *models.IntelligenceResponse, path Path) *ChatResult {
	s.cache.Put(message, resp)
	span.SetAttributes(attribute.String("chat.path", string(path)))
	chatTurnsTotal.WithLabelValues(string(path)).Inc()
	return &ChatResult{Response: resp, Path: path, RequestID: requestID}
}

func (s *ChatService) directGeneration(ctx context.Context, contents []llm.Content) (*models.IntelligenceResponse, error) {
	out, err := s.generate(ctx, roundDirect, &llm.Request{
		SystemInstruction: systemInstruction + directGenerationHint,
		Contents:          contents,
		ResponseSchema:    responseSchema,
	})
	if err != nil {
		return nil, err
	}
	return ParseIntelligence(out.Text)
}

func (s *ChatService) toolRounds(ctx context.Context, log *zap.SugaredLogger, contents []llm.Content) (*models.IntelligenceResponse, Path, error) {
	first, err := s.generate(ctx, roundTools, &llm.Request{
		SystemInstruction: systemInstruction,
		Contents:          contents,
		Tools:             toolDeclarations,
	})
	if err != nil {
		return nil, "", err
	}

	if len(first.FunctionCalls) == 0 {
		final, err := s.generate(ctx, roundFinalize, &llm.Request{
			SystemInstruction: systemInstruction,
			Contents:          contents,
			ResponseSchema:    responseSchema,
		})
		if err != nil {
			return nil, "", err
		}
		resp, err := ParseIntelligence(final.Text)
		return resp, PathNoTool, err
	}

	log.Infow("Executing tool calls", "count", len(first.FunctionCalls))
	results, err := s.tools.Execute(ctx, first.FunctionCalls)
	if err != nil {
		return nil, "", err
	}

	next := make([]llm.Content, 0, len(contents)+2)
	next = append(next, contents...)
	next = append(next, modelTurn(first), toolTurn(results))

	// the tool result round carries no system instruction
	final, err := s.generate(ctx, roundToolResult, &llm.Request{
		Contents:       next,
		ResponseSchema: responseSchema,
	})
	if err != nil {
		return nil, "", err
	}
	resp, err := ParseIntelligence(final.Text)
	return resp, PathTools, err
}

func (s *ChatService) generate(ctx context.Context, round string, req *llm.Request) (*llm.Response, error) {
	ctx, span := telemetry.StartSpan(ctx, "chat."+round)
	defer span.End()

	start := time.Now()
	resp, err := s.generator.Generate(ctx, req)
	observeUpstream(round, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

// buildContents maps client history to model turns. Only "model" keeps its role.
func buildContents(history []models.ChatTurn, message string) []llm.Content {
	contents := make([]llm.Content, 0, len(history)+1)
	for _, h := range history {
		role := llm.RoleUser
		if h.Role == models.ChatRoleModel {
			role = llm.RoleModel
		}
		contents = append(contents, llm.TextContent(role, h.Text))
	}
	return append(contents, llm.TextContent(llm.RoleUser, message))
}

// modelTurn replays the model's tool-call message. Providers that return no
// content get one rebuilt from the function calls.
func modelTurn(resp *llm.Response) llm.Content {
	turn := resp.Content
	if len(turn.Parts) == 0 {
		for _, fc := range resp.FunctionCalls {
			turn.Parts = append(turn.Parts, llm.Part{FunctionCall: &fc})
		}
	}
	turn.Role = llm.RoleModel
	return turn
}

func toolTurn(results []llm.FunctionResponse) llm.Content {
	turn := llm.Content{Role: llm.RoleTool}
	for i := range results {
		turn.Parts = append(turn.Parts, llm.Part{FunctionResponse: &results[i]})
	}
	return turn
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
