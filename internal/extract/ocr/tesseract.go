// Package ocr shells out to the tesseract binary for image-to-text.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/exam-forge/examforge/internal/extract"
)

// MinImageTextChars is the minimum usable length of OCR output.
const MinImageTextChars = 10

// Tesseract runs the tesseract CLI against uploaded image bytes.
type Tesseract struct {
	Langs   []string
	Timeout time.Duration
}

// New builds an engine for the given languages ("eng" when none given).
func New(langs ...string) *Tesseract {
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Tesseract{Langs: langs, Timeout: 30 * time.Second}
}

// Available reports whether the tesseract binary is on PATH.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// ExtractText OCRs image bytes into sanitized text. Output below
// MinImageTextChars is reported as extract.ErrInsufficientText.
func (t *Tesseract) ExtractText(ctx context.Context, data []byte) (string, error) {
	if !t.Available() {
		return "", errors.New("tesseract not found in PATH")
	}

	path, cleanup, err := extract.WriteTemp(data, "examforge-*.img")
	if err != nil {
		return "", fmt.Errorf("persist upload: %w", err)
	}
	defer cleanup()

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	args := []string{path, "stdout", "-l", strings.Join(t.Langs, "+")}
	cmd := exec.CommandContext(ctx, "tesseract", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("tesseract: %s", msg)
	}

	text := extract.Sanitize(strings.TrimSpace(out.String()))
	if len([]rune(text)) < MinImageTextChars {
		return "", fmt.Errorf("%w: got %d characters from OCR", extract.ErrInsufficientText, len([]rune(text)))
	}
	return text, nil
}
