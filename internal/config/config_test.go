package config

import "testing"

func TestValidate_RequiresDatabaseURL(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLHours: 24}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestValidate_DevFallbackSecret(t *testing.T) {
	cfg := &Config{
		Env:           "development",
		DatabaseURL:   "postgres://localhost/shifa",
		TokenTTLHours: 24,
		DBMaxConns:    10,
		DBMinConns:    2,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected dev fallback secret to be set")
	}
}

func TestValidate_ProdRequiresSecret(t *testing.T) {
	cfg := &Config{
		Env:           "production",
		DatabaseURL:   "postgres://localhost/shifa",
		TokenTTLHours: 24,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}
}

func TestValidate_ConnBounds(t *testing.T) {
	cfg := &Config{
		Env:           "development",
		DatabaseURL:   "postgres://localhost/shifa",
		TokenTTLHours: 24,
		DBMaxConns:    1,
		DBMinConns:    5,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max conns < min conns")
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.example, http://b.example"}
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "http://a.example" || got[1] != "http://b.example" {
		t.Errorf("CORSOrigins() = %v", got)
	}

	cfg = &Config{CORSAllowedOrigins: ""}
	if got := cfg.CORSOrigins(); len(got) != 1 || got[0] != "*" {
		t.Errorf("empty origins = %v, want [*]", got)
	}
}

func TestIsDev(t *testing.T) {
	for env, want := range map[string]bool{"development": true, "dev": true, "production": false, "staging": false} {
		cfg := &Config{Env: env}
		if cfg.IsDev() != want {
			t.Errorf("IsDev(%q) = %v, want %v", env, !want, want)
		}
	}
}
