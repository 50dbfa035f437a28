package email

import (
	"context"
	"time"
	"unicode/utf8"
)

// defaultRawBodyLimit caps how much of a provider response body is retained
// on a RawResponse.
const defaultRawBodyLimit = 1024

// Attachment is one base64-encoded file carried by an outbound message.
type Attachment struct {
	ContentB64  string
	Filename    string
	Type        string
	Disposition string
}

// Payload is the canonical representation of an outbound notification email.
// The handler normalizes a submission to this structure before handing it to
// a provider.
type Payload struct {
	MessageID   string
	From        string
	FromName    string
	To          []string
	CC          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// RawResponse mirrors the low level provider response callers may inspect
// when a send is rejected.
type RawResponse struct {
	ID        string
	Code      int
	Body      string
	Timestamp time.Time
}

// Provider is the contract exposed by the email provider implementation:
// send one structured message, return success or a failure describing why.
type Provider interface {
	Send(ctx context.Context, payload *Payload) (*RawResponse, error)
}

// truncateRaw trims a provider response body to the given rune limit.
func truncateRaw(raw string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(raw) <= limit {
		return raw
	}
	return string([]rune(raw)[:limit])
}
