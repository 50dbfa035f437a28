package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/example/baggage-report-service/internal/config"
	"github.com/example/baggage-report-service/internal/handler"
	email "github.com/example/baggage-report-service/internal/providers/email"
)

var successBodyPattern = regexp.MustCompile(`^OK:BAG-\d{8}-\d{6}-[A-Z0-9]{4}$`)

func newTestServer(t *testing.T) (*Server, *email.MockProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Env: "development", Port: 8080},
		Email: config.EmailConfig{
			Provider:    "mock",
			FromAddress: "noreply@example.com",
			FromName:    "Bahamasair Baggage Reports",
		},
		Routing: config.RoutingConfig{
			Primary:  "claims@example.com",
			Stations: map[string]string{"NAS": "nassau@example.com"},
		},
		Limits: config.LimitConfig{
			MaxAttachments:     config.DefaultMaxAttachments,
			MaxAttachmentBytes: config.DefaultMaxAttachmentBytes,
		},
	}

	provider := email.NewMockProvider(zerolog.Nop(), email.WithLatencyRange(0, 0))
	h, err := handler.New(cfg, provider, zerolog.Nop())
	if err != nil {
		t.Fatalf("handler init: %v", err)
	}

	return New(cfg, h, zerolog.Nop()), provider
}

func validForm() url.Values {
	v := url.Values{}
	v.Set("full_name", "Jane Rolle")
	v.Set("email", "jane@example.com")
	v.Set("phone", "+1 242 555 0100")
	v.Set("date", "2026-08-01")
	v.Set("flight", "UP204")
	v.Set("station", "NAS1")
	v.Set("incident_type", "Delayed")
	v.Set("damage_desc", "Bag did not arrive on the belt")
	return v
}

func TestSubmitEndToEnd(t *testing.T) {
	srv, provider := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !successBodyPattern.MatchString(rec.Body.String()) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if len(provider.Sent()) != 1 {
		t.Fatalf("expected one send, got %d", len(provider.Sent()))
	}
}

func TestSubmitRootAlias(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestSubmitDebugQuery(t *testing.T) {
	srv, provider := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/submit?debug=1", strings.NewReader("station=NAS1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("expected JSON response, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"receivedKeys"`) {
		t.Errorf("expected diagnostic body, got %q", rec.Body.String())
	}
	if len(provider.Sent()) != 0 {
		t.Error("debug requests must never send email")
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	srv, provider := newTestServer(t)

	form := validForm()
	form.Del("flight")

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "Missing: flight") {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if len(provider.Sent()) != 0 {
		t.Error("no email must be sent")
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}
