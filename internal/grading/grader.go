// Package grading scores multiple-choice responses locally, with no
// model involvement.
package grading

import (
	"strconv"
	"strings"
)

// Q is the minimal view of a multiple-choice question the grader needs.
type Q struct {
	Options     []string
	AnswerKey   string
	Explanation string
}

// Result is the outcome of locally grading one response.
type Result struct {
	UserAnswer    string
	CorrectAnswer string
	Explanation   string
	IsCorrect     bool
}

// Grade scores one response against q. Both the response and the answer
// key are normalized before the comparison, so "b", "B" and "1" all match
// an answer key of "B".
func Grade(q Q, response string) Result {
	user := NormalizeAnswer(response, q.Options)
	ref := NormalizeAnswer(q.AnswerKey, q.Options)
	return Result{
		UserAnswer:    user,
		CorrectAnswer: ref,
		Explanation:   q.Explanation,
		IsCorrect:     user == ref,
	}
}

// NormalizeAnswer trims and uppercases an answer, then maps an in-range
// zero-based numeric index onto its option letter (0→A, 1→B, ...).
// Out-of-range numbers and non-numeric answers pass through unchanged, so
// normalizing an already-letter answer is a no-op.
func NormalizeAnswer(answer string, options []string) string {
	s := strings.ToUpper(strings.TrimSpace(answer))
	if !isDigits(s) {
		return s
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	if idx >= 0 && idx < len(options) {
		return string(rune('A' + idx))
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
