package email

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/example/baggage-report-service/internal/config"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridOption configures the behaviour of the SendGrid provider.
type SendGridOption func(*SendGridProvider)

// WithSendGridHost overrides the API base URL, used to point tests at a
// local stub server.
func WithSendGridHost(host string) SendGridOption {
	return func(p *SendGridProvider) {
		if strings.TrimSpace(host) != "" {
			p.host = strings.TrimSpace(host)
		}
	}
}

// WithSendGridClock replaces the clock used for response timestamps.
func WithSendGridClock(now func() time.Time) SendGridOption {
	return func(p *SendGridProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// SendGridProvider implements the Provider interface against the SendGrid
// v3 mail send API.
type SendGridProvider struct {
	logger      zerolog.Logger
	apiKey      string
	host        string
	now         func() time.Time
	maxRawChars int
}

// NewSendGridProvider constructs a Provider backed by SendGrid.
func NewSendGridProvider(cfg config.EmailConfig, logger zerolog.Logger, opts ...SendGridOption) (*SendGridProvider, error) {
	if strings.TrimSpace(cfg.SendGridAPIKey) == "" {
		return nil, errors.New("sendgrid provider: api key is required")
	}

	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	p := &SendGridProvider{
		logger:      logger,
		apiKey:      strings.TrimSpace(cfg.SendGridAPIKey),
		host:        "https://api.sendgrid.com",
		now:         time.Now,
		maxRawChars: defaultRawBodyLimit,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p, nil
}

// Send delivers the supplied payload through the SendGrid API. Any status
// outside 2xx is returned as an error alongside the raw response.
func (p *SendGridProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("sendgrid provider: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("sendgrid provider: at least one recipient is required")
	}
	if strings.TrimSpace(payload.From) == "" {
		return nil, errors.New("sendgrid provider: from address is required")
	}

	message := buildMessage(payload)

	request := sendgrid.GetRequest(p.apiKey, sendGridEndpoint, p.host)
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("sendgrid provider: request: %w", err)
	}

	raw := &RawResponse{
		ID:        firstHeader(response.Headers, "X-Message-Id"),
		Code:      response.StatusCode,
		Body:      truncateRaw(response.Body, p.maxRawChars),
		Timestamp: p.now(),
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		p.logger.Info().
			Str("provider", "sendgrid").
			Str("message_id", payload.MessageID).
			Int("status", response.StatusCode).
			Msg("sendgrid rejected message")
		return raw, fmt.Errorf("sendgrid provider: unexpected status %d: %s", raw.Code, raw.Body)
	}

	p.logger.Debug().
		Str("provider", "sendgrid").
		Str("message_id", payload.MessageID).
		Int("status", response.StatusCode).
		Msg("sendgrid accepted message")
	return raw, nil
}

func buildMessage(payload *Payload) *sgmail.SGMailV3 {
	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(payload.FromName, payload.From))
	message.Subject = payload.Subject

	personalization := sgmail.NewPersonalization()
	for _, to := range payload.To {
		personalization.AddTos(sgmail.NewEmail("", to))
	}
	for _, cc := range payload.CC {
		personalization.AddCCs(sgmail.NewEmail("", cc))
	}
	message.AddPersonalizations(personalization)

	if payload.HTML != "" {
		message.AddContent(sgmail.NewContent("text/html", payload.HTML))
	}

	for _, att := range payload.Attachments {
		attachment := sgmail.NewAttachment()
		attachment.SetContent(att.ContentB64)
		attachment.SetFilename(att.Filename)
		attachment.SetType(att.Type)
		attachment.SetDisposition(att.Disposition)
		message.AddAttachment(attachment)
	}

	return message
}

func firstHeader(headers map[string][]string, key string) string {
	for k, values := range headers {
		if strings.EqualFold(k, key) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
