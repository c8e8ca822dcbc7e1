package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pazarmk/pazar-backend/internal/storage"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadHandler struct {
	uploader *storage.Uploader
}

func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Upload accepts a multipart "file" part and returns the public URL of the
// stored object.
func (h *UploadHandler) Upload(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("unavailable", "uploads are not configured"))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "file is required"))
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse("too_large", "file exceeds upload limit"))
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to read file"))
	}
	defer f.Close()

	url, err := h.uploader.UploadListingImage(c.Request().Context(), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to upload file"))
	}
	return c.JSON(http.StatusCreated, UploadResponse{URL: url})
}
