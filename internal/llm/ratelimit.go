package llm

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"
)

type rateLimitedGenerator struct {
	next    Generator
	limiter *rate.Limiter
}

// WithRateLimit rejects calls beyond the limiter's budget with a 429 StatusError
// instead of waiting, so callers take their rate-limit path immediately.
func WithRateLimit(next Generator, limiter *rate.Limiter) Generator {
	if limiter == nil {
		return next
	}
	return &rateLimitedGenerator{next: next, limiter: limiter}
}

func (g *rateLimitedGenerator) Generate(ctx context.Context, req *Request) (*Response, error) {
	if !g.limiter.Allow() {
		return nil, &StatusError{
			Code:    http.StatusTooManyRequests,
			Message: "local upstream quota exceeded",
		}
	}
	return g.next.Generate(ctx, req)
}
