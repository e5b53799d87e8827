package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/SatyaPujith/Spotlight/internal/config"
	"github.com/SatyaPujith/Spotlight/internal/database"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/middleware"
	"github.com/SatyaPujith/Spotlight/internal/services"
	"github.com/SatyaPujith/Spotlight/pkg/auth"
)

type AuthHandler struct {
	service *services.AuthService
	log     *zap.SugaredLogger
}

func NewAuthHandler(db *database.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service: services.NewAuthService(db, cfg),
		log:     logger.GetLogger("auth"),
	}
}

// SetupAccountRoutes mounts /auth and /saved-businesses. Without a database both
// answer 503 so chat keeps working.
func SetupAccountRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	if db == nil {
		router.All("/auth/*", DatabaseUnavailable)
		router.All("/saved-businesses", DatabaseUnavailable)
		router.All("/saved-businesses/*", DatabaseUnavailable)
		return
	}

	SetupAuthRoutes(router.Group("/auth"), db, cfg)
	SetupSavedBusinessRoutes(router.Group("/saved-businesses", middleware.AuthRequired(cfg)), db)
}

func SetupAuthRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewAuthHandler(db, cfg)

	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Post("/guest", h.Guest)
	router.Post("/refresh", h.RefreshToken)

	SetupUserRoutes(router.Group("/profile", middleware.AuthRequired(cfg)), db)
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Name, email and password"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Name, email, and password are required"})
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	response, err := h.service.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "User already exists with this email"})
		}
		h.log.Errorw("Registration failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Registration failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Email and password are required"})
	}

	response, err := h.service.Login(&req)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid credentials"})
	}

	return c.JSON(response)
}

// Guest godoc
// @Summary Create a guest account
// @Tags auth
// @Produce json
// @Success 201 {object} services.AuthResponse
// @Router /api/auth/guest [post]
func (h *AuthHandler) Guest(c *fiber.Ctx) error {
	response, err := h.service.Guest()
	if err != nil {
		h.log.Errorw("Guest session failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to create guest session"})
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// RefreshToken godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req services.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Refresh token is required"})
	}

	response, err := h.service.RefreshToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid refresh token"})
	}

	return c.JSON(response)
}
