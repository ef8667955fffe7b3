// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetRegistrationSetting handles GET /api/settings/registration. It is
// public so the signup page can hide itself while registration is closed.
func (s *Server) GetRegistrationSetting(c *fiber.Ctx) error {
	open, err := s.settingsService.AllowRegistration(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"allow_registration": open})
}

// GetSettings handles GET /api/admin/settings
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.settingsService.ListSettings(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// UpsertSetting handles PUT /api/admin/settings
func (s *Server) UpsertSetting(c *fiber.Ctx) error {
	var req struct {
		Key         string `json:"key"`
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	setting, err := s.settingsService.UpsertSetting(c.Context(), service.UpsertSettingInput{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(setting)
}
