package domain

import (
	"github.com/google/uuid"
)

// Attachment is one uploaded file after intake. All fields except
// ExtractedText are set once at creation and never mutated; ExtractedText is
// filled in by the matching extraction strategy right after intake, or stays
// empty when the format is non-extractable or extraction failed.
type Attachment struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"file_name"`
	DeclaredType string    `json:"declared_type"`
	SizeBytes    int64     `json:"size_bytes"`

	// Payload is the base64 encoding of the raw upload, used for preview on
	// the caller side and as OCR input for images.
	Payload string `json:"payload"`

	ExtractedText string `json:"extracted_text,omitempty"`
}

// HasExtractedText reports whether an extraction strategy produced usable text.
func (a Attachment) HasExtractedText() bool {
	return a.ExtractedText != ""
}
