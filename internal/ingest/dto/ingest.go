package dto

import (
	"optiledger-backend/internal/ingest/domain"
)

// IngestEmailRequest is the structured webhook payload. Raw rfc822 bodies
// bypass this and are decoded by pkg/mailparse instead.
type IngestEmailRequest struct {
	AccountID     string              `json:"account_id"`
	Sender        string              `json:"sender" binding:"required"`
	Subject       string              `json:"subject"`
	HTMLBody      string              `json:"html_body"`
	PlainTextBody string              `json:"plain_text_body"`
	Attachments   []AttachmentPayload `json:"attachments"`
}

// AttachmentPayload carries one base64-encoded attachment
type AttachmentPayload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

// FailuresResponse lists dead-lettered emails for the review queue
type FailuresResponse struct {
	Failures []*domain.IngestFailure `json:"failures"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Total    int64                   `json:"total"`
}
