package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/SatyaPujith/Spotlight/internal/database"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/middleware"
	"github.com/SatyaPujith/Spotlight/internal/services"
)

type SavedBusinessHandler struct {
	service *services.SavedBusinessService
	log     *zap.SugaredLogger
}

func NewSavedBusinessHandler(db *database.DB) *SavedBusinessHandler {
	return &SavedBusinessHandler{
		service: services.NewSavedBusinessService(db),
		log:     logger.GetLogger("saved_businesses"),
	}
}

// SetupSavedBusinessRoutes mounts the bookmark endpoints; router must already require auth
func SetupSavedBusinessRoutes(router fiber.Router, db *database.DB) {
	h := NewSavedBusinessHandler(db)

	router.Get("", h.List)
	router.Post("", h.Save)
	router.Delete("/:businessId", h.Remove)
}

// List godoc
// @Summary List saved businesses
// @Tags saved-businesses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.SavedBusinessView
// @Router /api/saved-businesses [get]
func (h *SavedBusinessHandler) List(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	saved, err := h.service.List(userID)
	if err != nil {
		h.log.Errorw("Get saved businesses failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to fetch saved businesses"})
	}

	return c.JSON(fiber.Map{"savedBusinesses": saved})
}

// Save godoc
// @Summary Save a business
// @Tags saved-businesses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.SaveBusinessRequest true "Business card"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /api/saved-businesses [post]
func (h *SavedBusinessHandler) Save(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req services.SaveBusinessRequest
	if err := c.BodyParser(&req); err != nil || req.Business == nil || req.Business.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Business data is required"})
	}

	if _, err := h.service.Save(userID, req.Business); err != nil {
		if errors.Is(err, services.ErrBusinessAlreadySaved) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Business already saved or user not found"})
		}
		h.log.Errorw("Save business failed", "user_id", userID, "business_id", req.Business.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to save business"})
	}

	return c.JSON(fiber.Map{"message": "Business saved successfully"})
}

// Remove godoc
// @Summary Remove a saved business
// @Tags saved-businesses
// @Produce json
// @Security BearerAuth
// @Param businessId path string true "Business ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /api/saved-businesses/{businessId} [delete]
func (h *SavedBusinessHandler) Remove(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	if err := h.service.Remove(userID, c.Params("businessId")); err != nil {
		if errors.Is(err, services.ErrSavedBusinessNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Business not found in saved list"})
		}
		h.log.Errorw("Remove saved business failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to remove business"})
	}

	return c.JSON(fiber.Map{"message": "Business removed successfully"})
}
