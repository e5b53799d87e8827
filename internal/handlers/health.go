package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SatyaPujith/Spotlight/internal/database"
)

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}

// LivenessCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz/live [get]
func LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessCheck godoc
// @Summary Readiness probe
// @Description Ready when a generative model is configured. Database state is reported but does not gate readiness; chat works without it.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz/ready [get]
func ReadinessCheck(db *database.DB, modelConfigured bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "disabled"
		if db != nil {
			dbStatus = "up"
			if err := db.Ping(); err != nil {
				dbStatus = "down"
			}
		}

		modelStatus := "configured"
		status, code := "ready", fiber.StatusOK
		if !modelConfigured {
			modelStatus = "missing"
			status, code = "not_ready", fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"database": dbStatus,
			"model":    modelStatus,
		})
	}
}
