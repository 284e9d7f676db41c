package scheduling

import (
	"context"
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

// RegisterRoutes mounts booking, the doctor's inbox, and the CNIC visit
// search. All routes assume the auth middleware already ran.
func (h *Handler) RegisterRoutes(sec *echo.Group) {
	sec.GET("/doctors/:id/slots", h.Slots)

	appts := sec.Group("/appointments")
	appts.POST("", h.Book, auth.RequireRole(auth.RolePatient))
	appts.GET("/mine", h.Mine, auth.RequireRole(auth.RolePatient))
	appts.GET("/doctor", h.DoctorInbox, auth.RequireRole(auth.RoleDoctor))
	appts.GET("/search", h.SearchVisits, auth.RequireRole(auth.RoleDoctor))
	appts.GET("/:id", h.Get)
	appts.POST("/:id/accept", h.Accept, auth.RequireRole(auth.RoleDoctor))
	appts.POST("/:id/reject", h.Reject, auth.RequireRole(auth.RoleDoctor))
	appts.POST("/:id/complete", h.Complete, auth.RequireRole(auth.RoleDoctor))
}

func (h *Handler) Slots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	slots, err := h.svc.Slots(c.Request().Context(), doctorID, c.QueryParam("hospital"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "doctor or location not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"slots": slots})
}

func (h *Handler) Book(c echo.Context) error {
	ctx := c.Request().Context()
	patientID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var in BookingInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	appt, err := h.svc.Book(ctx, patientID, auth.UserNameFromContext(ctx), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			return echo.NewHTTPError(http.StatusConflict, "slot already booked, please pick another")
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "doctor or location not found")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) Mine(c echo.Context) error {
	ctx := c.Request().Context()
	patientID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	p := pagination.FromContext(c)
	appts, total, err := h.svc.PatientAppointments(ctx, patientID, c.QueryParam("view"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, p.Limit, p.Offset))
}

func (h *Handler) DoctorInbox(c echo.Context) error {
	ctx := c.Request().Context()
	doctorID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	p := pagination.FromContext(c)
	appts, total, err := h.svc.DoctorAppointments(ctx, doctorID, c.QueryParam("status"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, p.Limit, p.Offset))
}

func (h *Handler) SearchVisits(c echo.Context) error {
	p := pagination.FromContext(c)
	visits, total, err := h.svc.SearchVisits(c.Request().Context(), c.QueryParam("cnic"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	actorID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	appt, err := h.svc.Get(ctx, actorID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) Accept(c echo.Context) error {
	return h.decide(c, h.svc.Accept)
}

func (h *Handler) Reject(c echo.Context) error {
	return h.decide(c, h.svc.Reject)
}

func (h *Handler) decide(c echo.Context, fn func(ctx context.Context, doctorID, apptID uuid.UUID) error) error {
	ctx := c.Request().Context()
	doctorID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	if err := fn(ctx, doctorID, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	doctorID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	var in ConsultationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	appt, err := h.svc.Complete(ctx, doctorID, id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, appt)
}
