package types

import "strings"

// Attachment holds the extracted text content of a single message attachment.
// Content is plain text produced by the extraction strategies, or a sentinel
// string when extraction failed or the media type is unsupported.
type Attachment struct {
	AttachmentID string `json:"attachment_id"`
	Filename     string `json:"filename"`
	MediaKind    string `json:"media_kind"`
	Content      string `json:"content"`
}

// Message represents a single fetched mail message after decomposition.
// Body is nil when the message carried attachments but no plain-text part.
type Message struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Body        *string      `json:"body,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// StructuredFields is the fixed nine-field record produced by the completion
// service for one unit of text. Absent fields carry the literal "N/A".
type StructuredFields struct {
	Name           string `json:"name"`
	PolicyNumber   string `json:"policy_number"`
	PolicyCategory string `json:"policy_category"`
	IssuerName     string `json:"issuer_name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	PremiumAmount  string `json:"premium_amount"`
	CoverageAmount string `json:"coverage_amount"`
	ContactInfo    string `json:"contact_info"`
}

// ExtractionRecord is one entry of the pipeline's output collection.
// Attachment fields are empty for message-body records. Extracted is nil
// when the completion service failed for that text.
type ExtractionRecord struct {
	MessageID          string            `json:"message_id"`
	AttachmentIdentity string            `json:"attachment_identity,omitempty"`
	MediaKind          string            `json:"media_kind,omitempty"`
	Filename           string            `json:"filename,omitempty"`
	Extracted          *StructuredFields `json:"extracted"`
}

// BodyIdentity returns the dedup identity key for a message body.
func BodyIdentity(messageID string) string {
	return messageID
}

// AttachmentIdentity returns the dedup identity key for one attachment.
// Two attachments with the same message ID and filename are the same logical
// unit regardless of case or surrounding whitespace.
func AttachmentIdentity(messageID, filename string) string {
	return strings.ToLower(strings.TrimSpace(messageID + "-" + filename))
}
