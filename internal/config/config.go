package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// OCRLanguages are tesseract language codes, joined with '+'.
	OCRLanguages []string

	MaxPDFBytes   int64
	MaxImageBytes int64

	// RequestTimeout bounds a whole request including the model call.
	RequestTimeout time.Duration
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:       addr,
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:    envOr("GROQ_BASE_URL", ""),
		GroqModel:      envOr("GROQ_MODEL", ""),
		OCRLanguages:   csvOr("OCR_LANGUAGES", "eng"),
		MaxPDFBytes:    envBytes("MAX_PDF_BYTES", 10<<20),
		MaxImageBytes:  envBytes("MAX_IMAGE_BYTES", 5<<20),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 120*time.Second),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBytes(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
