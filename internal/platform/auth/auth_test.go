package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestIssuer_MintAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	userID := uuid.New()

	token, err := issuer.Mint(userID, "Dr. Ahmed", RoleDoctor)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("subject = %s, want %s", claims.Subject, userID)
	}
	if claims.Role != RoleDoctor || claims.Name != "Dr. Ahmed" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	token, err := issuer.Mint(uuid.New(), "x", RolePatient)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).Mint(uuid.New(), "x", RolePatient)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := NewIssuer("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func runAuth(t *testing.T, issuer *Issuer, authorization string, handler echo.HandlerFunc) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return Middleware(issuer)(handler)(c)
}

func TestMiddleware_InjectsIdentity(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	userID := uuid.New()
	token, _ := issuer.Mint(userID, "Sana", RolePatient)

	err := runAuth(t, issuer, "Bearer "+token, func(c echo.Context) error {
		ctx := c.Request().Context()
		id, ok := UserIDFromContext(ctx)
		if !ok || id != userID {
			t.Errorf("user id = %v (ok=%v), want %v", id, ok, userID)
		}
		if RoleFromContext(ctx) != RolePatient {
			t.Errorf("role = %q", RoleFromContext(ctx))
		}
		if UserNameFromContext(ctx) != "Sana" {
			t.Errorf("name = %q", UserNameFromContext(ctx))
		}
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	err := runAuth(t, issuer, "", okHandler)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	err := runAuth(t, issuer, "Token abc", okHandler)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	err := runAuth(t, issuer, "Bearer not-a-token", okHandler)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string, required ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), uuid.New(), "x", role))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return RequireRole(required...)(okHandler)(c)
	}

	if err := run(RoleDoctor, RoleDoctor); err != nil {
		t.Errorf("doctor should access doctor route: %v", err)
	}
	if err := run(RoleAdmin, RoleDoctor); err != nil {
		t.Errorf("admin should access any route: %v", err)
	}
	assertHTTPError(t, run(RolePatient, RoleDoctor), http.StatusForbidden)
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Errorf("code = %d, want %d", he.Code, code)
	}
}
