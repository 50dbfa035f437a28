// Package handler runs the submission pipeline: one Event in, one Result
// out, with at most one outbound email as a side effect. The pipeline is a
// single linear pass with early-exit branches; nothing is retried and the
// provider call completes before the response is produced.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/baggage-report-service/internal/config"
	"github.com/example/baggage-report-service/internal/form"
	"github.com/example/baggage-report-service/internal/models"
	email "github.com/example/baggage-report-service/internal/providers/email"
	"github.com/example/baggage-report-service/internal/render"
	"github.com/example/baggage-report-service/internal/report"
)

// honeypotField is rendered invisibly in the real form; bots fill it in,
// passengers never do.
const honeypotField = "fax"

var debugToken = regexp.MustCompile(`\bdebug=1\b`)

// Option customises handler behaviour.
type Option func(*Handler)

// WithCaseIDGenerator swaps the case identifier generator, useful for
// deterministic tests.
func WithCaseIDGenerator(g *report.CaseIDGenerator) Option {
	return func(h *Handler) {
		if g != nil {
			h.caseIDs = g
		}
	}
}

// Handler processes baggage-irregularity report submissions.
type Handler struct {
	cfg      *config.Config
	provider email.Provider
	logger   zerolog.Logger
	caseIDs  *report.CaseIDGenerator
}

// New constructs a Handler. The configuration and provider are required;
// everything the handler needs is injected here, it takes no ambient
// dependency afterwards.
func New(cfg *config.Config, provider email.Provider, logger zerolog.Logger, opts ...Option) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("handler: config is required")
	}
	if provider == nil {
		return nil, errors.New("handler: email provider is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	h := &Handler{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
		caseIDs:  report.NewCaseIDGenerator(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	return h, nil
}

// Handle runs the pipeline for one request. Any panic escaping the pipeline
// is converted into a 500 so the caller always receives a response.
func (h *Handler) Handle(ctx context.Context, ev models.Event) (res models.Result) {
	log := h.logger.With().Str("request_id", uuid.NewString()).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("submission pipeline panicked")
			res = models.TextResult(http.StatusInternalServerError, fmt.Sprintf("Server error: %v", r))
		}
	}()

	return h.handle(ctx, ev, log)
}

func (h *Handler) handle(ctx context.Context, ev models.Event, log zerolog.Logger) models.Result {
	if ev.Method != http.MethodPost {
		return models.TextResult(http.StatusMethodNotAllowed, "Method Not Allowed")
	}
	if ev.Body == "" {
		return models.TextResult(http.StatusBadRequest, "No request body found.")
	}

	contentType := ev.ContentType()
	log.Info().
		Str("content_type", contentType).
		Bool("is_base64", ev.IsBase64Encoded).
		Msg("submission received")

	parsed, err := form.ParseBody(ev)
	if err != nil {
		log.Warn().Err(err).Msg("body parse failed")
		return h.resultForError(err)
	}

	fields := form.Normalize(parsed.Fields)
	received := report.ReceivedKeys(fields)
	log.Info().Strs("received_keys", received).Msg("fields normalized")

	if isDebug(ev) {
		return debugResult(contentType, ev.IsBase64Encoded, received)
	}

	if fields[honeypotField] != "" {
		log.Warn().Msg("honeypot field populated, rejecting submission")
		return models.TextResult(http.StatusBadRequest, "Invalid submission")
	}

	rpt := report.FromFields(fields)
	if err := report.Validate(rpt, received); err != nil {
		log.Warn().Err(err).Msg("submission validation failed")
		return h.resultForError(err)
	}

	caseID := h.caseIDs.Next()
	stationCode := stationCodeOf(rpt.Station)

	recipients := h.cfg.Routing.Resolve(stationCode)
	if len(recipients) == 0 {
		log.Error().Str("station_code", stationCode).Msg("no destination inbox configured")
		return models.TextResult(http.StatusInternalServerError, "No destination inbox configured.")
	}

	html, err := render.Notification(fields, caseID)
	if err != nil {
		log.Error().Err(err).Msg("notification render failed")
		return h.resultForError(err)
	}

	payload := &email.Payload{
		MessageID:   caseID,
		From:        h.cfg.Email.FromAddress,
		FromName:    h.cfg.Email.FromName,
		To:          recipients,
		Subject:     fmt.Sprintf("[%s] %s Baggage Report — %s", stationCode, rpt.IncidentType, caseID),
		HTML:        html,
		Attachments: buildAttachments(parsed.Files, h.cfg.Limits),
	}
	if cc, ok := report.CCAddress(rpt.Email); ok {
		payload.CC = []string{cc}
	}

	if _, err := h.provider.Send(ctx, payload); err != nil {
		log.Error().Err(err).Str("case_id", caseID).Msg("email dispatch failed")
		return h.resultForError(err)
	}

	log.Info().
		Str("case_id", caseID).
		Str("station_code", stationCode).
		Int("recipients", len(recipients)).
		Int("attachments", len(payload.Attachments)).
		Msg("report relayed")
	return models.TextResult(http.StatusOK, "OK:"+caseID)
}

// resultForError maps pipeline errors onto the response taxonomy: client
// input problems become 400s carrying the error text, everything else is a
// 500 with the underlying message.
func (h *Handler) resultForError(err error) models.Result {
	var unsupported *form.UnsupportedContentTypeError
	var emptyMultipart *form.EmptyMultipartError
	var missing *report.MissingFieldError

	switch {
	case errors.As(err, &unsupported), errors.As(err, &emptyMultipart), errors.As(err, &missing):
		return models.TextResult(http.StatusBadRequest, err.Error())
	default:
		return models.TextResult(http.StatusInternalServerError, "Server error: "+err.Error())
	}
}

func isDebug(ev models.Event) bool {
	return debugToken.MatchString(ev.RawURL) || debugToken.MatchString(ev.Path)
}

// debugResult short-circuits the pipeline with a diagnostic dump. No
// validation runs and no email is sent.
func debugResult(contentType string, isBase64 bool, receivedKeys []string) models.Result {
	body, err := json.MarshalIndent(struct {
		ContentType  string   `json:"contentType"`
		IsBase64     bool     `json:"isBase64"`
		ReceivedKeys []string `json:"receivedKeys"`
	}{
		ContentType:  contentType,
		IsBase64:     isBase64,
		ReceivedKeys: receivedKeys,
	}, "", "  ")
	if err != nil {
		return models.TextResult(http.StatusInternalServerError, "Server error: "+err.Error())
	}
	return models.Result{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(body),
	}
}

// stationCodeOf derives the routing code: the first 3 characters of the
// uppercased station field.
func stationCodeOf(station string) string {
	code := []rune(strings.ToUpper(strings.TrimSpace(station)))
	if len(code) > 3 {
		code = code[:3]
	}
	return string(code)
}
