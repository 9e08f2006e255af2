package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/exam-forge/examforge/internal/exam"
)

// multipartOverhead leaves room for the form boundary and field headers on
// top of the file size cap.
const multipartOverhead = 64 << 10

// readUpload pulls one multipart file field, enforcing the size cap and an
// optional extension whitelist before the bytes are read. The request body
// is capped up front so oversized uploads are rejected during parsing
// instead of being spooled in full.
func readUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64, extensions ...string) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	f, hdr, err := r.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", exam.Errf(exam.KindValidation, "file too large, maximum is %dMB", maxBytes>>20)
		}
		return nil, "", exam.Errf(exam.KindValidation, "%s file is required", field)
	}
	defer f.Close()

	if hdr.Size > maxBytes {
		return nil, "", exam.Errf(exam.KindValidation, "file too large (%.1fMB), maximum is %dMB",
			float64(hdr.Size)/(1<<20), maxBytes>>20)
	}
	if len(extensions) > 0 && !allowedExtension(hdr.Filename, extensions) {
		return nil, "", exam.Errf(exam.KindValidation, "invalid file type %q, expected %s",
			filepath.Ext(hdr.Filename), strings.Join(extensions, ", "))
	}

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, "", exam.Errf(exam.KindValidation, "reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", exam.Errf(exam.KindValidation, "file too large, maximum is %dMB", maxBytes>>20)
	}
	return data, hdr.Filename, nil
}

func allowedExtension(filename string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
