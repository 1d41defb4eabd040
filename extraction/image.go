package extraction

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"policyminer/config"
)

// extractImage recognizes text in an image via Tesseract. OCR workers are
// expensive, so one client is created per invocation and always released,
// even on failure. OCR errors are returned typed rather than swallowed;
// the caller decides how far the failure reaches.
func extractImage(content []byte) Result {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(config.OCRLanguage); err != nil {
		return Result{Kind: KindImage, Err: fmt.Errorf("%w: set language: %v", ErrOCR, err)}
	}
	if err := client.SetImageFromBytes(content); err != nil {
		return Result{Kind: KindImage, Err: fmt.Errorf("%w: load image: %v", ErrOCR, err)}
	}

	text, err := client.Text()
	if err != nil {
		return Result{Kind: KindImage, Err: fmt.Errorf("%w: %v", ErrOCR, err)}
	}
	return Result{Kind: KindImage, Text: text}
}
