package config

import (
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_PROVIDER", "mock")
	t.Setenv("FROM_ADDRESS", "noreply@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Env != "development" || cfg.App.Port != 8080 || cfg.App.LogLevel != "info" {
		t.Errorf("unexpected app defaults: %+v", cfg.App)
	}
	if cfg.Email.FromName != "Bahamasair Baggage Reports" {
		t.Errorf("unexpected from name %q", cfg.Email.FromName)
	}
	if cfg.Limits.MaxAttachments != DefaultMaxAttachments {
		t.Errorf("unexpected attachment cap %d", cfg.Limits.MaxAttachments)
	}
	if cfg.Limits.MaxAttachmentBytes != DefaultMaxAttachmentBytes {
		t.Errorf("unexpected attachment size cap %d", cfg.Limits.MaxAttachmentBytes)
	}
}

func TestLoadRequiresSendGridKey(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("FROM_ADDRESS", "noreply@example.com")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing SENDGRID_API_KEY")
	}
	if !strings.Contains(err.Error(), "SENDGRID_API_KEY is required") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoadRequiresFromAddress(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "mock")
	t.Setenv("FROM_ADDRESS", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing FROM_ADDRESS")
	}
	if !strings.Contains(err.Error(), "FROM_ADDRESS is required") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoadStationTable(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TO_PRIMARY", "claims@example.com")
	t.Setenv("TO_DEFAULT_STATION", "fallback@example.com")
	t.Setenv("TO_NAS", "nassau@example.com")
	t.Setenv("TO_FPO", "freeport@example.com")
	t.Setenv("TO_TOOLONG", "nope@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Routing.Stations["NAS"] != "nassau@example.com" {
		t.Errorf("expected NAS override, got %q", cfg.Routing.Stations["NAS"])
	}
	if cfg.Routing.Stations["FPO"] != "freeport@example.com" {
		t.Errorf("expected FPO override, got %q", cfg.Routing.Stations["FPO"])
	}
	for code := range cfg.Routing.Stations {
		if len(code) != 3 {
			t.Errorf("unexpected station code %q", code)
		}
	}
	if cfg.Routing.Primary != "claims@example.com" || cfg.Routing.DefaultStation != "fallback@example.com" {
		t.Errorf("unexpected routing config %+v", cfg.Routing)
	}
}

func TestResolve(t *testing.T) {
	routing := RoutingConfig{
		Primary:        "claims@example.com",
		DefaultStation: "fallback@example.com",
		Stations:       map[string]string{"NAS": "nassau@example.com"},
	}

	tests := []struct {
		name string
		code string
		want []string
	}{
		{"station override", "NAS", []string{"claims@example.com", "nassau@example.com"}},
		{"lowercase code", "nas", []string{"claims@example.com", "nassau@example.com"}},
		{"fallback", "GGT", []string{"claims@example.com", "fallback@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := routing.Resolve(tt.code)
			if len(got) != len(tt.want) {
				t.Fatalf("Resolve(%q) = %v, want %v", tt.code, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Resolve(%q)[%d] = %q, want %q", tt.code, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveEmpty(t *testing.T) {
	var routing RoutingConfig
	if got := routing.Resolve("NAS"); len(got) != 0 {
		t.Errorf("expected no recipients, got %v", got)
	}
}
