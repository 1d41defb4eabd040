package extraction

import (
	"errors"
	"log"
)

// Media kinds reported on extraction results and output records.
const (
	KindPDF         = "pdf"
	KindDocx        = "docx"
	KindText        = "text"
	KindImage       = "image"
	KindUnsupported = "unsupported"
)

// Sentinel contents recorded when a strategy fails or no strategy applies.
// Extraction failures are not fatal to the pipeline; the sentinel replaces
// the text and processing continues.
const (
	PDFFailureSentinel   = "Failed to extract text from PDF"
	DocFailureSentinel   = "Failed to extract text from document"
	ImageFailureSentinel = "Failed to extract text from image"
	UnsupportedContent   = "Unsupported attachment type"
)

// ErrOCR marks a failure of the OCR engine. Callers isolate it to the one
// attachment being processed rather than aborting the run.
var ErrOCR = errors.New("ocr recognition failed")

// Result is the outcome of extracting plain text from one payload.
// Err is set only for failures the strategy does not recover locally
// (currently OCR); recovered failures carry a sentinel in Text instead.
type Result struct {
	Kind string
	Text string
	Err  error
}

// Strategy extracts plain text from a raw payload of one media type.
type Strategy func(content []byte) Result

// Registry maps media types to extraction strategies. New formats are added
// by registering a strategy; dispatch never needs to change.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry returns a registry with the built-in strategies registered.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}

	r.Register("application/pdf", extractPDF)
	r.Register("application/vnd.openxmlformats-officedocument.wordprocessingml.document", extractDocx)
	r.Register("text/plain", extractPlain)

	// Gmail reports jpeg attachments under both spellings
	r.Register("image/jpeg", extractImage)
	r.Register("image/jpg", extractImage)
	r.Register("image/png", extractImage)

	return r
}

// Register installs or replaces the strategy for a media type.
func (r *Registry) Register(mediaType string, s Strategy) {
	r.strategies[mediaType] = s
}

// Extract routes the payload to the strategy for its declared media type.
// Unknown media types yield an unsupported result with placeholder content
// and no extraction is attempted.
func (r *Registry) Extract(content []byte, mediaType string) Result {
	s, ok := r.strategies[mediaType]
	if !ok {
		log.Printf("Unsupported attachment type: %s", mediaType)
		return Result{Kind: KindUnsupported, Text: UnsupportedContent}
	}
	return s(content)
}

func extractPlain(content []byte) Result {
	return Result{Kind: KindText, Text: string(content)}
}
