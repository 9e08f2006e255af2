package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrTruncated marks model output that ended mid-value, typically because
// the completion ran out of its token budget inside the JSON array.
var ErrTruncated = errors.New("model output truncated")

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// Salvage extracts a single JSON object from raw model output. Models are
// instructed to answer with pure JSON but are observed to wrap it in
// markdown fences, prepend commentary, or run out of tokens mid-array.
// The strategy is two explicit stages: a fenced ```json block when one
// exists, then a slice from the first '{' to the last '}'. NUL bytes and
// U+FFFD are stripped before decoding. The result is validated JSON or an
// error; truncated output is reported as ErrTruncated so callers can
// retry with a smaller request.
func Salvage(raw string) ([]byte, error) {
	candidate := raw
	if block, ok := fencedBlock(candidate); ok {
		candidate = block
	}
	if slice, ok := braceSlice(candidate); ok {
		candidate = slice
	}
	candidate = stripArtifacts(candidate)

	data := []byte(strings.TrimSpace(candidate))
	if len(data) == 0 {
		return nil, errors.New("no JSON object found in model output")
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) && int(syn.Offset) >= len(data) {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		return nil, fmt.Errorf("invalid JSON in model output: %w", err)
	}
	return data, nil
}

// fencedBlock returns the content between the first "```json" marker and
// the next closing fence.
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, fenceOpen)
	if start < 0 {
		return "", false
	}
	start += len(fenceOpen)
	end := strings.Index(s[start:], fenceClose)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(s[start : start+end]), true
}

// braceSlice slices from the first '{' to the last '}' inclusive,
// tolerating prose before and after the object. When no closing brace
// follows the opening one, the tail from '{' is returned so that
// truncated output still reaches the decoder.
func braceSlice(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return s[start:], true
	}
	return s[start : end+1], true
}

// stripArtifacts removes NUL and the Unicode replacement character, which
// break json.Unmarshal when they leak into model output.
func stripArtifacts(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || r == '�' {
			return -1
		}
		return r
	}, s)
}
