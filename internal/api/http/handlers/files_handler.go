package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/dto"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
)

// FilesHandler issues presigned upload URLs.
type FilesHandler struct {
	files *service.FileService
}

func NewFilesHandler(files *service.FileService) *FilesHandler {
	return &FilesHandler{files: files}
}

// UploadURL POST /files/upload-url.
func (h *FilesHandler) UploadURL(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UploadURLRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	ticket, err := h.files.UploadURL(c.UserContext(), id, req.Filename, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadURLResponse{UploadURL: ticket.UploadURL, FileKey: ticket.FileKey})
}
