package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/SatyaPujith/Spotlight/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error    string `json:"error"`
	Fallback bool   `json:"fallback,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.GetLogger("http").Errorw("Unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}

// DatabaseUnavailable answers account routes when the process runs without a database
func DatabaseUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
		Error: "Database unavailable",
	})
}
