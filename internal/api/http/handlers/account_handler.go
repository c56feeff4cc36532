package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/dto"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
)

// AccountHandler serves the public account deletion form.
type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RequestDeletion POST /delete-account.
func (h *AccountHandler) RequestDeletion(c *fiber.Ctx) error {
	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := h.accounts.RequestDeletion(c.UserContext(), req.Name, req.Email, req.Reason); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}
