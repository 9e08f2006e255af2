package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/exam-forge/examforge/internal/exam"
	"github.com/exam-forge/examforge/internal/extract"
)

// GenerateQuestionsHandler serves POST /generate-questions. The body is
// either multipart form data with a "pdf" file, or a JSON object carrying
// raw content. Both variants accept examType (default "test") and an
// optional randomSeed variety hint.
func GenerateQuestionsHandler(svc *exam.Service, pdfx *extract.PDFExtractor, maxPDFBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var content, examType, seed string

		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "multipart/form-data") {
			data, _, err := readUpload(w, r, "pdf", maxPDFBytes, ".pdf")
			if err != nil {
				writeError(w, err)
				return
			}
			text, err := pdfx.ExtractText(data)
			if err != nil {
				writeError(w, classifyExtract(err))
				return
			}
			content = text
			examType = r.FormValue("examType")
			seed = r.FormValue("randomSeed")
		} else {
			var req exam.GenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, exam.Errf(exam.KindValidation, "invalid JSON body: %w", err))
				return
			}
			content = req.Content
			examType = req.ExamType
			seed = req.RandomSeed
		}

		questions, err := svc.GenerateQuestions(r.Context(), content, examType, seed)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
	}
}
