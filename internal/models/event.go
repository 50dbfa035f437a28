package models

import "strings"

// Event describes one inbound HTTP request the way a serverless platform
// hands it to a function: the body may arrive base64 transport-encoded and
// the raw URL / path carry any query signals. The gin adapter in
// internal/server builds an Event per request; tests build them directly.
type Event struct {
	Method          string
	Headers         map[string]string
	Body            string
	IsBase64Encoded bool
	RawURL          string
	Path            string
}

// Header performs a case-insensitive header lookup.
func (e Event) Header(name string) string {
	for k, v := range e.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// ContentType returns the lowercased content-type header.
func (e Event) ContentType() string {
	return strings.ToLower(e.Header("Content-Type"))
}

// Result is the HTTP response produced for one Event.
type Result struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// TextResult builds a plain text response.
func TextResult(status int, body string) Result {
	return Result{StatusCode: status, Body: body}
}

// UploadedFile is one file extracted from a multipart submission, tagged
// with the form field it arrived under.
type UploadedFile struct {
	FieldName   string
	Filename    string
	ContentType string
	Content     []byte
}
