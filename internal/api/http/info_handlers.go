package http

import "net/http"

// HealthHandler serves GET /health.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "examforge-api",
		})
	}
}

// InfoHandler serves GET / with a short endpoint listing.
func InfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "ExamForge API",
			"status":  "running",
			"endpoints": map[string]string{
				"generate_questions": "/generate-questions",
				"grade_exam":         "/grade-exam",
				"extract_pdf":        "/extract-text-from-pdf",
				"extract_image":      "/extract-text-from-image",
				"health":             "/health",
			},
		})
	}
}
