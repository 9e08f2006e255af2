package http

import (
	"encoding/json"
	"net/http"

	"github.com/exam-forge/examforge/internal/exam"
)

// GradeExamHandler serves POST /grade-exam.
func GradeExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exam.GradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, exam.Errf(exam.KindValidation, "invalid JSON body: %w", err))
			return
		}
		results, err := svc.GradeExam(r.Context(), req.Questions, req.UserAnswers)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
	}
}
