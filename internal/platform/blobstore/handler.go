package blobstore

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes upload and download endpoints over a Store. Uploads
// return the public URL the rest of the application embeds in appointments
// and health records.
type Handler struct {
	store   Store
	baseURL string
}

func NewHandler(store Store, baseURL string) *Handler {
	return &Handler{store: store, baseURL: baseURL}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/uploads", h.Upload)
	g.GET("/files/:id", h.Download)
}

// URL returns the public URL for a stored blob.
func (h *Handler) URL(id uuid.UUID) string {
	return fmt.Sprintf("%s/api/files/%s", h.baseURL, id)
}

// Upload accepts a multipart file under the "file" field and stores it.
func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}
	if fileHeader.Size > MaxFileSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds maximum size")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "open upload")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	blob, err := h.store.Put(c.Request().Context(), fileHeader.Filename, contentType, src)
	if err != nil {
		return storeError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":   blob.ID,
		"name": blob.Name,
		"size": blob.Size,
		"url":  h.URL(blob.ID),
	})
}

// Download streams a stored file back to the caller.
func (h *Handler) Download(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file id")
	}

	blob, rc, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return storeError(err)
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.Name))
	return c.Stream(http.StatusOK, blob.ContentType, rc)
}

func storeError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	case errors.Is(err, ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds maximum size")
	case errors.Is(err, ErrEmptyUpload):
		return echo.NewHTTPError(http.StatusBadRequest, "empty upload")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "file storage error")
	}
}
