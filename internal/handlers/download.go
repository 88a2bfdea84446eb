package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"csdash/internal/uploads"
)

// DownloadHandler serves generated workbooks.
type DownloadHandler struct {
	cache *uploads.Cache
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(cache *uploads.Cache) *DownloadHandler {
	return &DownloadHandler{cache: cache}
}

// Download sends the file stored under :token as an attachment.
func (h *DownloadHandler) Download(c fiber.Ctx) error {
	f, err := h.cache.File(c.Params("token"))
	if errors.Is(err, uploads.ErrExpired) {
		return fiber.NewError(fiber.StatusNotFound, "download expired, run the report again")
	}
	if err != nil {
		return err
	}

	c.Attachment(f.Name)
	c.Set(fiber.HeaderContentType, f.ContentType)
	return c.Send(f.Data)
}
