package handler

import (
	"encoding/base64"

	"github.com/samber/lo"

	"github.com/example/baggage-report-service/internal/config"
	"github.com/example/baggage-report-service/internal/models"
	email "github.com/example/baggage-report-service/internal/providers/email"
)

// uploadFieldNames are the only form fields whose files become attachments.
var uploadFieldNames = []string{"uploads", "uploads[]"}

// buildAttachments converts uploaded files into email attachments. Empty and
// oversized files are silently dropped, and at most MaxAttachments are kept
// in arrival order.
func buildAttachments(files []models.UploadedFile, limits config.LimitConfig) []email.Attachment {
	candidates := lo.Filter(files, func(f models.UploadedFile, _ int) bool {
		return lo.Contains(uploadFieldNames, f.FieldName)
	})

	attachments := make([]email.Attachment, 0, limits.MaxAttachments)
	for _, f := range candidates {
		if len(f.Content) == 0 || int64(len(f.Content)) > limits.MaxAttachmentBytes {
			continue
		}

		filename := f.Filename
		if filename == "" {
			filename = "file"
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		attachments = append(attachments, email.Attachment{
			ContentB64:  base64.StdEncoding.EncodeToString(f.Content),
			Filename:    filename,
			Type:        contentType,
			Disposition: "attachment",
		})
		if len(attachments) >= limits.MaxAttachments {
			break
		}
	}
	return attachments
}
