package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SatyaPujith/Spotlight/internal/llm"
	"github.com/SatyaPujith/Spotlight/internal/yelp"
)

// ReservationRequest is the make_reservation tool argument set
type ReservationRequest struct {
	BusinessID string `mapstructure:"businessId" json:"businessId"`
	Date       string `mapstructure:"date" json:"date"`
	Time       string `mapstructure:"time" json:"time"`
	PartySize  int    `mapstructure:"partySize" json:"partySize"`
}

// ToolExecutor runs the tool calls a model requests
type ToolExecutor struct {
	directory *yelp.Directory
	now       func() time.Time
	log       *zap.SugaredLogger
}

func NewToolExecutor(directory *yelp.Directory, log *zap.SugaredLogger) *ToolExecutor {
	return &ToolExecutor{directory: directory, now: time.Now, log: log}
}

// Execute runs calls concurrently. Responses come back in call order.
func (e *ToolExecutor) Execute(ctx context.Context, calls []llm.FunctionCall) ([]llm.FunctionResponse, error) {
	out := make([]llm.FunctionResponse, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = llm.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: e.execute(gctx, call),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *ToolExecutor) execute(ctx context.Context, call llm.FunctionCall) map[string]any {
	switch call.Name {
	case ToolQueryYelpAI:
		toolCallsTotal.WithLabelValues(call.Name).Inc()
		return e.queryYelpAI(ctx, call.Args)
	case ToolMakeReservation:
		toolCallsTotal.WithLabelValues(call.Name).Inc()
		return e.makeReservation(call.Args)
	default:
		toolCallsTotal.WithLabelValues("unknown").Inc()
		e.log.Warnw("Model requested unknown tool", "tool", call.Name)
		return map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)}
	}
}

func (e *ToolExecutor) queryYelpAI(ctx context.Context, args map[string]any) map[string]any {
	var params yelp.SearchParams
	if err := decodeArgs(args, &params); err != nil {
		e.log.Warnw("Invalid query_yelp_ai arguments", "args", args, "error", err)
		return map[string]any{"name": ToolQueryYelpAI, "error": err.Error()}
	}

	e.log.Infow("Executing business query", "term", params.Term, "location", params.Location, "price", params.Price)
	result := e.directory.Search(ctx, params)

	resp := map[string]any{"name": ToolQueryYelpAI, "content": result}
	if result.Unavailable {
		resp["unavailable"] = true
		resp["message"] = result.Message
	}
	return resp
}

// makeReservation confirms without contacting any booking system
func (e *ToolExecutor) makeReservation(args map[string]any) map[string]any {
	var details any = args
	var req ReservationRequest
	if err := decodeArgs(args, &req); err == nil {
		details = req
	} else {
		e.log.Warnw("Invalid make_reservation arguments, echoing raw args", "args", args, "error", err)
	}

	e.log.Infow("Confirming reservation", "business_id", req.BusinessID, "party_size", req.PartySize)
	return map[string]any{
		"status":           "confirmed",
		"details":          details,
		"confirmation_id":  fmt.Sprintf("%s%d", confirmationIDPrefix, e.now().UnixMilli()),
		"restaurant_phone": reservationPhone,
	}
}

// decodeArgs accepts numbers where strings are declared and vice versa
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}
