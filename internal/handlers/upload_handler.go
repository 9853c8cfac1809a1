package handlers

import (
	"errors"
	"io"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/services"
	"github.com/gofiber/fiber/v2"
)

const uploadField = "image"

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Images accepts one or more multipart parts named "image".
func (h *UploadHandler) Images(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "upload_images", "", err)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Expected multipart/form-data")
	}

	headers := form.File[uploadField]
	files := make([]services.UploadFile, len(headers))
	for i, fh := range headers {
		files[i] = services.UploadFile{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		}
	}

	resp, err := h.uploadService.UploadImages(c.UserContext(), s.UserID, files)
	if err != nil {
		if resp != nil && errors.Is(err, services.ErrUploadRejected) {
			resp.Error = true
			resp.Message = err.Error()
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return respondError(c, "upload_images", "", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
