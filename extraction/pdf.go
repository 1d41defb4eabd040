package extraction

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF runs a streaming text-token read over the document and joins
// the tokens with newlines in document order. Any parser failure is recovered
// locally: the sentinel replaces the text and the pipeline continues.
func extractPDF(content []byte) Result {
	text, err := pdfText(content)
	if err != nil {
		log.Printf("Failed to parse PDF: %v", err)
		return Result{Kind: KindPDF, Text: PDFFailureSentinel}
	}
	return Result{Kind: KindPDF, Text: text}
}

// pdfText extracts text tokens page by page. The PDF library can panic on
// malformed input, so the whole read is guarded.
func pdfText(data []byte) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, item := range page.Content().Text {
			b.WriteString(item.S)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
