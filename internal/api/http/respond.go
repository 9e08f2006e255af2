// Package http wires the exam service, extractors and OCR engine to chi
// routes.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/exam-forge/examforge/internal/exam"
	"github.com/exam-forge/examforge/internal/extract"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses and emits the
// uniform {"error": ...} payload.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	if errors.Is(err, extract.ErrInsufficientText) {
		return http.StatusUnprocessableEntity
	}
	switch exam.KindOf(err) {
	case exam.KindValidation:
		return http.StatusBadRequest
	case exam.KindExtraction:
		return http.StatusUnprocessableEntity
	case exam.KindUnavailable:
		return http.StatusServiceUnavailable
	case exam.KindConfig, exam.KindUpstream, exam.KindParse:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
