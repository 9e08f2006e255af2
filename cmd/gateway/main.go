package main

import (
	"log"
	"net/http"

	api "github.com/exam-forge/examforge/internal/api/http"
	"github.com/exam-forge/examforge/internal/config"
	"github.com/exam-forge/examforge/internal/exam"
	"github.com/exam-forge/examforge/internal/extract"
	"github.com/exam-forge/examforge/internal/extract/ocr"
	"github.com/exam-forge/examforge/internal/llm"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	var completer exam.Completer
	if cfg.GroqAPIKey != "" {
		completer = llm.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
	} else {
		log.Printf("warning: GROQ_API_KEY is not set; question generation and grading will fail")
	}
	svc := exam.NewService(completer)
	pdfx := extract.NewPDFExtractor()
	engine := ocr.New(cfg.OCRLanguages...)
	if !engine.Available() {
		log.Printf("warning: tesseract not found in PATH; /extract-text-from-image will return 503")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", api.InfoHandler())
	r.Get("/health", api.HealthHandler())
	r.Post("/generate-questions", api.GenerateQuestionsHandler(svc, pdfx, cfg.MaxPDFBytes))
	r.Post("/grade-exam", api.GradeExamHandler(svc))
	r.Post("/extract-text-from-pdf", api.ExtractPDFHandler(pdfx, cfg.MaxPDFBytes))
	r.Post("/extract-text-from-image", api.ExtractImageHandler(engine, cfg.MaxImageBytes))

	log.Printf("examforge gateway listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
