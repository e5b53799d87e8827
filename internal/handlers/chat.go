package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/models"
	"github.com/SatyaPujith/Spotlight/internal/services"
	"github.com/SatyaPujith/Spotlight/internal/telemetry"
)

const (
	configErrorMessage      = "Yelp AI API Key configuration error"
	upstreamUnavailableText = "Yelp AI API temporarily unavailable. Please try again in a moment."
)

type ChatHandler struct {
	service *services.ChatService
	log     *zap.SugaredLogger
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service, log: logger.GetLogger("chat")}
}

func SetupChatRoutes(router fiber.Router, service *services.ChatService) {
	h := NewChatHandler(service)

	router.Post("/chat", h.Chat)
}

// Chat godoc
// @Summary Answer one chat turn
// @Description Returns a structured reply. Rate-limited upstream calls produce a degraded reply instead of an error.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Conversation history and new message"
// @Success 200 {object} models.IntelligenceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Message is required"})
	}

	result, err := h.service.Respond(c.UserContext(), req.History, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			h.log.Warn("Chat requested but no generative model API key is configured")
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: configErrorMessage})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:    upstreamUnavailableText,
			Fallback: true,
		})
	}

	if span := telemetry.SpanFromContext(c); span != nil {
		span.SetAttributes(attribute.String("spotlight.request_id", result.RequestID))
	}
	c.Set("X-Request-ID", result.RequestID)
	c.Set("X-Spotlight-Path", string(result.Path))
	return c.JSON(result.Response)
}
