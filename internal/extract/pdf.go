// Package extract turns uploaded PDFs and images into prompt-ready text.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrInsufficientText signals that extraction technically succeeded but
// yielded too little text to build an exam from (scanned images, empty or
// corrupted files).
var ErrInsufficientText = errors.New("insufficient text extracted")

// MinPDFTextChars is the minimum usable length of extracted PDF text.
const MinPDFTextChars = 100

// PDFExtractor extracts plain text from PDF bytes using ledongthuc/pdf.
// The library wants a file path, so uploads pass through the scoped
// temp-file lifecycle.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// ExtractText returns the text of every readable page, separated by page
// markers. Pages that fail to decode are skipped rather than failing the
// whole document.
func (e *PDFExtractor) ExtractText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", rec)
		}
	}()

	path, cleanup, err := WriteTemp(data, "examforge-*.pdf")
	if err != nil {
		return "", fmt.Errorf("persist upload: %w", err)
	}
	defer cleanup()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n--- Page %d ---\n", i)
		b.WriteString(pageText)
	}

	text = Sanitize(strings.TrimSpace(b.String()))
	if len([]rune(text)) < MinPDFTextChars {
		return "", fmt.Errorf("%w: got %d characters, the file may be scanned images or corrupted", ErrInsufficientText, len([]rune(text)))
	}
	return text, nil
}
