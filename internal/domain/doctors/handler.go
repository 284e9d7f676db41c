package doctors

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shifa/shifa/internal/platform/auth"
	"github.com/shifa/shifa/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public directory endpoints and the admin
// management endpoints.
func (h *Handler) RegisterRoutes(sec *echo.Group) {
	sec.GET("/doctors", h.Search)
	sec.GET("/doctors/:id", h.Get)

	admin := sec.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/doctors", h.AdminList)
	admin.POST("/doctors/:id/verify", h.Verify)
	admin.PATCH("/doctors/:id", h.AdminUpdate)
	admin.DELETE("/doctors/:id", h.Remove)
}

func (h *Handler) Search(c echo.Context) error {
	specialty := c.QueryParam("specialty")
	if specialty == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "specialty query parameter is required")
	}

	p := pagination.FromContext(c)
	result, err := h.svc.Search(c.Request().Context(), specialty, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "doctor search failed")
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	profile, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) AdminList(c echo.Context) error {
	verified := c.QueryParam("verified") == "true"
	p := pagination.FromContext(c)

	profiles, total, err := h.svc.ListByVerified(c.Request().Context(), verified, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "listing failed")
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(profiles, total, p.Limit, p.Offset))
}

func (h *Handler) Verify(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	if err := h.svc.Verify(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "verification failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "verified"})
}

func (h *Handler) AdminUpdate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	var upd AdminUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.AdminUpdate(c.Request().Context(), id, upd); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "removal failed")
	}

	return c.NoContent(http.StatusNoContent)
}
