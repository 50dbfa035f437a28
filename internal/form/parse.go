package form

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/example/baggage-report-service/internal/models"
)

// Parsed is the outcome of extracting one request body: raw fields keyed by
// the name the client submitted, and any uploaded files tagged with their
// originating field name.
type Parsed struct {
	Fields map[string]string
	Files  []models.UploadedFile
}

func (p *Parsed) empty() bool {
	return len(p.Fields) == 0 && len(p.Files) == 0
}

// ParseBody dispatches on the request content type and extracts fields and
// files. Unsupported content types and empty multipart payloads surface as
// typed errors the handler maps to 400 responses.
func ParseBody(ev models.Event) (*Parsed, error) {
	ct := ev.ContentType()
	switch {
	case strings.Contains(ct, "multipart/form-data"):
		return parseMultipart(ev)
	case strings.Contains(ct, "application/x-www-form-urlencoded"):
		return parseURLEncoded(ev)
	default:
		return nil, &UnsupportedContentTypeError{ContentType: ct}
	}
}

func decodeBody(ev models.Event) ([]byte, error) {
	if !ev.IsBase64Encoded {
		return []byte(ev.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(ev.Body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return decoded, nil
}

// parseMultipart reads the body twice when it has to: a strict pass over the
// bytes as received, then a retry with lone LF line endings promoted to CRLF
// for clients that mangle the framing. A body that still yields nothing is
// reported with its decoded length.
func parseMultipart(ev models.Event) (*Parsed, error) {
	body, err := decodeBody(ev)
	if err != nil {
		return nil, err
	}

	_, params, err := mime.ParseMediaType(ev.Header("Content-Type"))
	boundary := ""
	if err == nil {
		boundary = params["boundary"]
	}
	if boundary == "" {
		return nil, &EmptyMultipartError{Length: len(body)}
	}

	parsed := readParts(body, boundary)
	if parsed.empty() {
		parsed = readParts(promoteCRLF(body), boundary)
	}
	if parsed.empty() {
		return nil, &EmptyMultipartError{Length: len(body)}
	}
	return parsed, nil
}

// readParts walks the multipart body and keeps everything it can. A
// malformed trailing part aborts the walk but does not discard the entries
// already extracted.
func readParts(body []byte, boundary string) *Parsed {
	parsed := &Parsed{Fields: make(map[string]string)}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if err != nil {
			return parsed
		}
		name := part.FormName()
		if name == "" {
			continue
		}
		content, err := io.ReadAll(part)
		if err != nil {
			return parsed
		}
		if filename := part.FileName(); filename != "" {
			parsed.Files = append(parsed.Files, models.UploadedFile{
				FieldName:   name,
				Filename:    filename,
				ContentType: part.Header.Get("Content-Type"),
				Content:     content,
			})
		} else {
			parsed.Fields[name] = string(content)
		}
	}
}

func promoteCRLF(body []byte) []byte {
	normalized := bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(normalized, []byte("\n"), []byte("\r\n"))
}

// parseURLEncoded decodes standard query-string encoding. ParseQuery keeps
// every pair it could decode alongside its error, and a form submission is
// better partially read than rejected, so the error is dropped. The first
// value wins for repeated keys.
func parseURLEncoded(ev models.Event) (*Parsed, error) {
	body, err := decodeBody(ev)
	if err != nil {
		return nil, err
	}

	values, _ := url.ParseQuery(string(body))
	parsed := &Parsed{Fields: make(map[string]string, len(values))}
	for key, vals := range values {
		if len(vals) > 0 {
			parsed.Fields[key] = vals[0]
		}
	}
	return parsed, nil
}
