package config

import "time"

// Mail Search Constants
const (
	// SearchQuery is the fixed topical predicate sent to the mail provider
	SearchQuery = `coverage OR insurance OR "premium amount"`

	// MaxSearchResults caps the number of messages fetched per run
	MaxSearchResults = 3

	// DefaultSubject is used when a message carries no Subject header
	DefaultSubject = "No Subject"

	// ProviderCallTimeout bounds each mail provider API call
	ProviderCallTimeout = 30 * time.Second
)

// Extraction Constants
const (
	// OCRLanguage is the language Tesseract is configured with
	OCRLanguage = "eng"

	// CompletionModel is the Cohere chat model used for structured extraction
	CompletionModel = "command-r-08-2024"

	// CompletionTimeout bounds each completion service call
	CompletionTimeout = 60 * time.Second
)

// Output Constants
const (
	// KafkaTopic is the topic extraction records are published to when
	// Kafka publishing is configured
	KafkaTopic = "policy.extractions"

	// UploadDir is the directory incoming file uploads are stored in
	UploadDir = "uploads"
)
