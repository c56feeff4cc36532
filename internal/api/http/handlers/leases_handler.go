package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/dto"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
)

// LeasesHandler manages lease endpoints.
type LeasesHandler struct {
	service *service.LeaseService
}

// NewLeasesHandler constructs handler.
func NewLeasesHandler(leaseService *service.LeaseService) *LeasesHandler {
	return &LeasesHandler{service: leaseService}
}

// List GET /leases.
func (h *LeasesHandler) List(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	leases, err := h.service.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLeaseList(leases))
}

// Create POST /leases.
func (h *LeasesHandler) Create(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.LeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	lease, err := h.service.Create(c.UserContext(), id, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewLeaseResponse(lease))
}

// Get GET /leases/:id.
func (h *LeasesHandler) Get(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	lease, err := h.service.Get(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLeaseResponse(lease))
}

// Update PATCH /leases/:id.
func (h *LeasesHandler) Update(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.LeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	lease, err := h.service.Update(c.UserContext(), id, c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLeaseResponse(lease))
}

// Delete DELETE /leases/:id.
func (h *LeasesHandler) Delete(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Download GET /leases/:id/download.
func (h *LeasesHandler) Download(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	url, err := h.service.DocumentURL(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.URLResponse{URL: url})
}
