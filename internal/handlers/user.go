package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/SatyaPujith/Spotlight/internal/database"
	"github.com/SatyaPujith/Spotlight/internal/middleware"
	"github.com/SatyaPujith/Spotlight/internal/services"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(db *database.DB) *UserHandler {
	return &UserHandler{
		service: services.NewUserService(db),
	}
}

// SetupUserRoutes mounts the profile endpoints; router must already require auth
func SetupUserRoutes(router fiber.Router, db *database.DB) {
	h := NewUserHandler(db)

	router.Get("", h.GetProfile)
	router.Put("", h.UpdateProfile)
	router.Delete("", h.DeleteProfile)
}

// GetProfile godoc
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]models.User
// @Failure 404 {object} ErrorResponse
// @Router /api/auth/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	user, err := h.service.GetByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateProfile godoc
// @Summary Update current user profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UpdateUserRequest true "Update data"
// @Success 200 {object} map[string]models.User
// @Router /api/auth/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req services.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if req.Name != nil && *req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Name cannot be empty"})
	}

	user, err := h.service.Update(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// DeleteProfile godoc
// @Summary Delete current user and saved businesses
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /api/auth/profile [delete]
func (h *UserHandler) DeleteProfile(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	if err := h.service.Delete(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to delete profile"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
