package http

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/exam-forge/examforge/internal/exam"
	"github.com/exam-forge/examforge/internal/extract"
	"github.com/exam-forge/examforge/internal/extract/ocr"
)

// classifyExtract marks extractor failures (corrupt files, library errors,
// a failed tesseract run) as extraction errors so they surface as 422.
// Insufficient-text errors already carry their own sentinel.
func classifyExtract(err error) error {
	if errors.Is(err, extract.ErrInsufficientText) {
		return err
	}
	return exam.Errf(exam.KindExtraction, "%w", err)
}

// ExtractPDFHandler serves POST /extract-text-from-pdf (multipart "pdf").
func ExtractPDFHandler(pdfx *extract.PDFExtractor, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := readUpload(w, r, "pdf", maxBytes, ".pdf")
		if err != nil {
			writeError(w, err)
			return
		}
		text, err := pdfx.ExtractText(data)
		if err != nil {
			writeError(w, classifyExtract(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"text":     text,
			"length":   utf8.RuneCountInString(text),
			"filename": filename,
		})
	}
}

// ExtractImageHandler serves POST /extract-text-from-image (multipart
// "image"). A missing tesseract install is a 503, not a request error.
func ExtractImageHandler(engine *ocr.Tesseract, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !engine.Available() {
			writeError(w, exam.Errf(exam.KindUnavailable, "OCR engine is not installed on this server"))
			return
		}
		data, _, err := readUpload(w, r, "image", maxBytes, ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp")
		if err != nil {
			writeError(w, err)
			return
		}
		text, err := engine.ExtractText(r.Context(), data)
		if err != nil {
			writeError(w, classifyExtract(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"text":   text,
			"length": utf8.RuneCountInString(text),
		})
	}
}
