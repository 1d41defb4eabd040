package extraction

import (
	"archive/zip"
	"bytes"
	"io"
	"log"
	"regexp"
	"strings"
)

var (
	docxParagraphRe = regexp.MustCompile(`</w:p>`)
	docxTagRe       = regexp.MustCompile(`<[^>]+>`)
)

// extractDocx pulls the raw text runs out of the document's XML body.
// Failures follow the same local-recovery policy as PDF extraction.
func extractDocx(content []byte) Result {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Printf("Failed to open docx archive: %v", err)
		return Result{Kind: KindDocx, Text: DocFailureSentinel}
	}

	for _, file := range zr.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			break
		}
		xmlBody, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			break
		}
		return Result{Kind: KindDocx, Text: docxRunsToText(xmlBody)}
	}

	log.Printf("Failed to read docx: no document body found")
	return Result{Kind: KindDocx, Text: DocFailureSentinel}
}

// docxRunsToText converts word/document.xml into plain text: paragraph ends
// become newlines, remaining markup is stripped.
func docxRunsToText(xmlBody []byte) string {
	text := docxParagraphRe.ReplaceAllString(string(xmlBody), "\n")
	text = docxTagRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&apos;", "'")
	return strings.TrimSpace(text)
}
