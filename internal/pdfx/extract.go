// Package pdfx extracts per-page plain text from a PDF byte stream. It
// does not OCR: scanned/image-only pages yield empty strings; the whole
// extraction fails only when fewer than 10 non-whitespace characters
// remain across all pages.
package pdfx

import (
	"bytes"
	"strings"
	"unicode"

	"study-material-platform/internal/apperr"

	"github.com/ledongthuc/pdf"
)

// Result is the ordered per-page text plus the page count, generalizing
// the teacher's go-pdf extraction path (its Gemini-vision and poppler
// fallbacks are dropped — this service never OCRs).
type Result struct {
	Pages     []string
	PageCount int
}

const minNonWhitespaceChars = 10

// Extract reads raw is a PDF byte stream and returns one string per page
// in order. It fails with BadInputError when the stream cannot be parsed
// as a PDF, or when fewer than 10 non-whitespace characters are present
// across every page combined.
func Extract(content []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, apperr.BadInput("uploaded file is not a valid PDF", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, numPages)
	totalNonWhitespace := 0

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue // scanned/image-only page: empty string, not a failure
		}

		normalized := normalize(text)
		pages[i-1] = normalized
		totalNonWhitespace += countNonWhitespace(normalized)
	}

	if totalNonWhitespace < minNonWhitespaceChars {
		return nil, apperr.BadInput("document contains no extractable text", nil)
	}

	return &Result{Pages: pages, PageCount: numPages}, nil
}

// normalize maps control characters below U+0020 (except TAB and LF) to
// single spaces and collapses runs of 3+ newlines to exactly two.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 && r != '\t' && r != '\n' {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	collapsed := b.String()
	for strings.Contains(collapsed, "\n\n\n") {
		collapsed = strings.ReplaceAll(collapsed, "\n\n\n", "\n\n")
	}
	return collapsed
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
