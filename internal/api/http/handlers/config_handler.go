package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// ConfigHandler exposes agent configuration and the manual SLA sweep.
// Admin only.
type ConfigHandler struct {
	config *service.ConfigService
	sla    *service.SLAService
}

// NewConfigHandler constructs handler.
func NewConfigHandler(configService *service.ConfigService, slaService *service.SLAService) *ConfigHandler {
	return &ConfigHandler{config: configService, sla: slaService}
}

// GetConfig GET /api/admin/config.
func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.config.Get(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConfigResponse(cfg)})
}

// UpdateConfig PUT /api/admin/config.
func (h *ConfigHandler) UpdateConfig(c *fiber.Ctx) error {
	var req dto.ConfigUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cfg, err := h.config.Update(c.Context(), service.ConfigUpdateInput{
		AutoCloseEnabled:    req.AutoCloseEnabled,
		ConfidenceThreshold: req.ConfidenceThreshold,
		SLAHours:            req.SLAHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConfigResponse(cfg)})
}

// RunSLASweep POST /api/admin/sla/run. Triggers the sweep outside its
// schedule.
func (h *ConfigHandler) RunSLASweep(c *fiber.Ctx) error {
	result, err := h.sla.RunSweep(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"checked": result.Checked}})
}
