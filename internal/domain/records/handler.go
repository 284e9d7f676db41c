package records

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shifa/shifa/internal/platform/auth"
	"github.com/shifa/shifa/internal/platform/blobstore"
	"github.com/shifa/shifa/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(sec *echo.Group) {
	recs := sec.Group("/records", auth.RequireRole(auth.RolePatient))
	recs.POST("", h.Upload)
	recs.GET("", h.List)
	recs.DELETE("/:id", h.Remove)
}

// Upload accepts a multipart file plus optional "name" and "date" fields.
func (h *Handler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	patientID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}
	if fileHeader.Size > blobstore.MaxFileSize {
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

	rec, err := h.svc.Upload(ctx, patientID,
		c.FormValue("name"), c.FormValue("date"),
		fileHeader.Filename, contentType, src)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds maximum size")
		case errors.Is(err, blobstore.ErrEmptyUpload):
			return echo.NewHTTPError(http.StatusBadRequest, "empty upload")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	patientID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	p := pagination.FromContext(c)
	recs, total, err := h.svc.List(ctx, patientID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "listing failed")
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, p.Limit, p.Offset))
}

func (h *Handler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	patientID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}

	if err := h.svc.Remove(ctx, patientID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "deletion failed")
	}

	return c.NoContent(http.StatusNoContent)
}
