package triage

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/triage/symptoms", h.ListSymptoms)
	g.POST("/triage/analyze", h.Analyze)
	g.POST("/triage/chat", h.Chat)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"symptoms": Symptoms})
}

type analyzeRequest struct {
	Symptoms []string `json:"symptoms"`
}

func (h *Handler) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	specialty, err := h.svc.Analyze(req.Symptoms)
	if err != nil {
		if errors.Is(err, ErrNoSymptoms) {
			return echo.NewHTTPError(http.StatusBadRequest, "select at least one symptom")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"specialty": specialty})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	result, err := h.svc.Chat(c.Request().Context(), req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "health assistant is unavailable right now")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"text":      result.Text,
		"specialty": result.Specialty,
	})
}
