package exam

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	TypeMultipleChoice = "multiple-choice"
	TypeDevelopment    = "development"
)

// Question is a single generated exam question. Options are present only
// for multiple-choice questions, and then hold exactly four entries.
type Question struct {
	ID             int      `json:"id"`
	Question       string   `json:"question"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  string   `json:"correct_answer"`
	ExpectedAnswer string   `json:"expectedAnswer,omitempty"`
	Explanation    string   `json:"explanation"`
	Type           string   `json:"type,omitempty"`
}

// UnmarshalJSON accepts the legacy "correctAnswer" key, which older
// payloads carry either as a string or as a zero-based option index.
func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	aux := struct {
		*alias
		Legacy json.RawMessage `json:"correctAnswer"`
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if q.CorrectAnswer == "" && len(aux.Legacy) > 0 {
		var s string
		if err := json.Unmarshal(aux.Legacy, &s); err == nil {
			q.CorrectAnswer = s
		} else {
			var n int
			if err := json.Unmarshal(aux.Legacy, &n); err == nil {
				q.CorrectAnswer = strconv.Itoa(n)
			}
		}
	}
	return nil
}

// IsMultipleChoice resolves the question kind. The type tag wins; payloads
// without one fall back to options presence.
func (q Question) IsMultipleChoice() bool {
	switch q.Type {
	case TypeMultipleChoice:
		return true
	case TypeDevelopment:
		return false
	}
	return len(q.Options) > 0
}

// ReferenceAnswer is the answer a grader compares against: the expected
// model answer for development questions when one exists, otherwise the
// correct_answer field.
func (q Question) ReferenceAnswer() string {
	if !q.IsMultipleChoice() && q.ExpectedAnswer != "" {
		return q.ExpectedAnswer
	}
	return q.CorrectAnswer
}

// UserAnswer is one submitted answer, keyed by question ID.
type UserAnswer struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer,omitempty"`
	TextAnswer string `json:"textAnswer,omitempty"`
}

// Effective returns the answer text under the precedence rule:
// answer, then textAnswer, then the empty string.
func (a UserAnswer) Effective() string {
	if strings.TrimSpace(a.Answer) != "" {
		return a.Answer
	}
	return a.TextAnswer
}

// Result is the graded outcome for a single question. Score is populated
// only for development questions.
type Result struct {
	QuestionID    int    `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
	IsCorrect     bool   `json:"isCorrect"`
	Score         *int   `json:"score,omitempty"`
}

// GradeRequest is the body of POST /grade-exam.
type GradeRequest struct {
	Questions   []Question   `json:"questions"`
	UserAnswers []UserAnswer `json:"userAnswers"`
}

// GenerateRequest is the JSON body variant of POST /generate-questions.
type GenerateRequest struct {
	Content    string `json:"content"`
	ExamType   string `json:"examType"`
	RandomSeed string `json:"randomSeed,omitempty"`
}
