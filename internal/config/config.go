package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultMaxAttachmentBytes caps the size of a single email attachment.
const DefaultMaxAttachmentBytes = 10 * 1024 * 1024

// DefaultMaxAttachments caps how many files are attached to one report email.
const DefaultMaxAttachments = 5

// Config captures all runtime configuration for the report intake service.
// It is read once at startup and passed to components as an immutable value;
// nothing reads the environment after Load returns.
type Config struct {
	App     AppConfig
	Email   EmailConfig
	Routing RoutingConfig
	Limits  LimitConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	Port     int
	LogLevel string
}

// EmailConfig selects and configures the outbound email provider.
type EmailConfig struct {
	Provider       string
	SendGridAPIKey string
	FromAddress    string
	FromName       string
}

// RoutingConfig holds the destination mailboxes for report notifications.
// Stations maps a 3-character station code to a mailbox address.
type RoutingConfig struct {
	Primary        string
	DefaultStation string
	Stations       map[string]string
}

// LimitConfig bounds the attachment handling of a single submission.
type LimitConfig struct {
	MaxAttachments     int
	MaxAttachmentBytes int64
}

// Resolve returns the recipient list for a station code: the per-station
// mailbox (or the default-station fallback) plus the primary mailbox. The
// result may be empty, which callers must treat as a configuration fault.
func (r RoutingConfig) Resolve(stationCode string) []string {
	station := r.Stations[strings.ToUpper(stationCode)]
	if station == "" {
		station = r.DefaultStation
	}

	var out []string
	if r.Primary != "" {
		out = append(out, r.Primary)
	}
	if station != "" {
		out = append(out, station)
	}
	return out
}

// stationEnvPattern matches per-station recipient overrides, e.g. TO_NAS.
// TO_PRIMARY and TO_DEFAULT_STATION never match because the code must be
// exactly 3 characters.
var stationEnvPattern = regexp.MustCompile(`^TO_([A-Z0-9]{3})$`)

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.Port = ldr.getInt("APP_PORT", 8080, false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Email.Provider = strings.ToLower(ldr.getString("EMAIL_PROVIDER", "sendgrid", false))
	cfg.Email.SendGridAPIKey = ldr.getString("SENDGRID_API_KEY", "", cfg.Email.Provider == "sendgrid")
	cfg.Email.FromAddress = ldr.getString("FROM_ADDRESS", "", true)
	cfg.Email.FromName = ldr.getString("FROM_NAME", "Bahamasair Baggage Reports", false)

	cfg.Routing.Primary = ldr.getString("TO_PRIMARY", "", false)
	cfg.Routing.DefaultStation = ldr.getString("TO_DEFAULT_STATION", "", false)
	cfg.Routing.Stations = stationTable(os.Environ())

	cfg.Limits.MaxAttachments = ldr.getInt("MAX_ATTACHMENTS", DefaultMaxAttachments, false)
	cfg.Limits.MaxAttachmentBytes = int64(ldr.getInt("MAX_ATTACHMENT_BYTES", DefaultMaxAttachmentBytes, false))

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// stationTable scans the environment for TO_<CODE> overrides.
func stationTable(environ []string) map[string]string {
	stations := make(map[string]string)
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		m := stationEnvPattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		stations[m[1]] = value
	}
	return stations
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
