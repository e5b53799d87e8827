package services

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/SatyaPujith/Spotlight/internal/cache"
	"github.com/SatyaPujith/Spotlight/internal/config"
	"github.com/SatyaPujith/Spotlight/internal/llm"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/yelp"
)

// ChatStack is everything the chat endpoint needs, built from configuration
type ChatStack struct {
	Generator llm.Generator // nil when no API key is configured
	Directory *yelp.Directory
	Cache     *cache.ResponseCache
	Chat      *ChatService
}

// NewChatStack wires the model client, directory source, cache and orchestrator.
// A missing model key is not an error: chat turns then fail with ErrNotConfigured.
func NewChatStack(ctx context.Context, cfg *config.Config) (*ChatStack, error) {
	log := logger.GetLogger("chat")
	stack := &ChatStack{Cache: cache.New(cfg.CacheTTL(), cfg.CacheCapacity)}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.UpstreamTimeout())
		if err != nil {
			return nil, err
		}
		var limiter *rate.Limiter
		if cfg.UpstreamRateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.UpstreamRateLimit), cfg.UpstreamRateBurst)
		}
		stack.Generator = llm.WithRateLimit(client, limiter)
		log.Infow("Generative model configured", "model", client.Model(), "rate_limit", cfg.UpstreamRateLimit)
	} else {
		log.Warn("GEMINI_API_KEY not set, chat will answer with a configuration error")
	}

	var source yelp.Source
	switch {
	case cfg.YelpAPIKey != "":
		source = yelp.NewFusionClient(cfg.YelpAPIBaseURL, cfg.YelpAPIKey, cfg.UpstreamTimeout())
	case stack.Generator != nil:
		source = yelp.NewModelSource(stack.Generator)
	}
	if source != nil {
		log.Infow("Directory source selected", "source", source.Name())
	}

	stack.Directory = yelp.NewDirectory(source, logger.GetLogger("directory"), yelp.WithObserver(ObserveDirectorySearch))
	stack.Chat = NewChatService(stack.Generator, stack.Cache, NewToolExecutor(stack.Directory, logger.GetLogger("tools")), log)
	return stack, nil
}
