package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestOracleConfig_RequiresAPIKey(t *testing.T) {
	cfg := OracleConfig{Model: "gpt-4o-mini"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("oracle config without api key should fail")
	}
	cfg.APIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("oracle config with api key should pass: %v", err)
	}
}

func TestDefaultConfig_FailsWithoutOracleKey(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("default config has no oracle api key and should fail validation")
	}
	cfg.Oracle.APIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config with api key should pass: %v", err)
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should fail")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port 70000 should fail")
	}
	cfg.Port = 8080
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 8080 should pass: %v", err)
	}
}
