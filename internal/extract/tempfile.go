package extract

import (
	"errors"
	"log"
	"os"
	"time"
)

const removeRetryDelay = 200 * time.Millisecond

// WriteTemp writes data to a fresh temp file and returns its path plus a
// cleanup func. The cleanup retries removal once after a short delay
// (some platforms keep open handles locked) and then logs a deferred
// cleanup warning instead of failing the request.
func WriteTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { removeWithRetry(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func removeWithRetry(path string) {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return
	}
	time.Sleep(removeRetryDelay)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("temp file %s could not be removed, deferring cleanup: %v", path, err)
	}
}
