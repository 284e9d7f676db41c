package doctors

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newHandlerFixture() (*Handler, *mockRepo, *echo.Echo) {
	svc, repo := newTestService(nil)
	return NewHandler(svc), repo, echo.New()
}

func TestHandler_Search_RequiresSpecialty(t *testing.T) {
	h, _, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	err := h.Search(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Search(t *testing.T) {
	h, repo, e := newHandlerFixture()
	addDoctor(repo, "Dentist", true)

	req := httptest.NewRequest(http.MethodGet, "/?specialty=Dentist", nil)
	rec := httptest.NewRecorder()

	if err := h.Search(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Dr. Test") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, _, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Verify(t *testing.T) {
	h, repo, e := newHandlerFixture()
	id := addDoctor(repo, "Dentist", false)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.Verify(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.profiles[id].Verified {
		t.Error("doctor should be verified")
	}
}

func TestHandler_AdminUpdate(t *testing.T) {
	h, repo, e := newHandlerFixture()
	id := addDoctor(repo, "Dentist", true)

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"hospital":"New Hospital","fee":2500}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.AdminUpdate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loc := repo.profiles[id].Locations[0]
	if loc.Hospital != "New Hospital" || loc.Fee != 2500 {
		t.Errorf("location = %+v", loc)
	}
}

func TestHandler_Remove_InvalidID(t *testing.T) {
	h, _, e := newHandlerFixture()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Remove(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
