package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Secret: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Secret: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h default", cfg.TokenTTL)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Secret: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with secret should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptySecret(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Secret: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty secret should fail")
	}
	if !strings.Contains(err.Error(), "secret is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Secret: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestBlogConfig_PageSizeOrdering(t *testing.T) {
	cfg := BlogConfig{PostsPerPage: 10, MaxPageSize: 5}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("max below default should fail")
	}
	if !strings.Contains(err.Error(), "max_page_size") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestThemeConfig_Defaults(t *testing.T) {
	cfg := ThemeConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty theme should default: %v", err)
	}
	if cfg.Default != "light" {
		t.Errorf("default = %q, want light", cfg.Default)
	}

	cfg = ThemeConfig{Default: "sepia"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown theme should fail validation")
	}
}

func TestI18nConfig_DefaultMustBeListed(t *testing.T) {
	cfg := I18nConfig{DefaultLocale: "fr", Locales: []string{"zh", "en"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("default locale outside locales should fail")
	}

	cfg = I18nConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty i18n should default: %v", err)
	}
	if cfg.DefaultLocale != "zh" || len(cfg.Locales) != 2 {
		t.Errorf("defaults = %q %v", cfg.DefaultLocale, cfg.Locales)
	}
}

func TestFullConfig_SectionValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.Auth.Mode = "token"
	cfg.Auth.Secret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
