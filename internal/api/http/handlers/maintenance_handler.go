package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/dto"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
)

// MaintenanceHandler manages maintenance ticket endpoints.
type MaintenanceHandler struct {
	service *service.MaintenanceService
}

// NewMaintenanceHandler constructs handler.
func NewMaintenanceHandler(maintenanceService *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: maintenanceService}
}

// List GET /maintenance.
func (h *MaintenanceHandler) List(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketList(tickets))
}

// Create POST /maintenance.
func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	ticket, err := h.service.Create(c.UserContext(), id, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// Get GET /maintenance/:id.
func (h *MaintenanceHandler) Get(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Update PATCH /maintenance/:id.
func (h *MaintenanceHandler) Update(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	ticket, err := h.service.Update(c.UserContext(), id, c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Delete DELETE /maintenance/:id.
func (h *MaintenanceHandler) Delete(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}
