// Package exam holds the domain types and the request-scoped orchestration
// between extraction, prompting, the model call and grading.
package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/exam-forge/examforge/internal/extract"
	"github.com/exam-forge/examforge/internal/grading"
	"github.com/exam-forge/examforge/internal/llm"
)

const (
	ExamTypeTest        = "test"
	ExamTypeDevelopment = "development"
)

// Completer is the single model operation the service needs.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts llm.CompletionOptions) (string, error)
}

// Service generates question sets and grades submitted exams. It holds no
// request state; the completer is nil when no API key is configured.
type Service struct {
	completer Completer
}

func NewService(c Completer) *Service { return &Service{completer: c} }

// GenerateQuestions builds the prompt for examType over content, calls the
// model once, and salvages the question set out of the response. A test
// request whose output comes back truncated is retried exactly once with a
// reduced question count before the error surfaces.
func (s *Service) GenerateQuestions(ctx context.Context, content, examType, seed string) ([]Question, error) {
	if s.completer == nil {
		return nil, Errf(KindConfig, "GROQ_API_KEY not configured")
	}
	content = extract.Sanitize(content)
	if strings.TrimSpace(content) == "" {
		return nil, Errf(KindValidation, "content is required")
	}
	if examType == "" {
		examType = ExamTypeTest
	}
	if examType != ExamTypeTest && examType != ExamTypeDevelopment {
		return nil, Errf(KindValidation, "unknown examType %q", examType)
	}
	content = llm.TruncateContent(extract.CollapseWhitespace(content))

	questions, err := s.generateOnce(ctx, content, examType, seed, 0)
	if errors.Is(err, llm.ErrTruncated) && examType == ExamTypeTest {
		log.Printf("generation output truncated, retrying with %d questions", llm.RetryQuestionCount)
		questions, err = s.generateOnce(ctx, content, examType, seed, llm.RetryQuestionCount)
	}
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// generateOnce performs one model call. countOverride of zero means the
// default count for the exam type.
func (s *Service) generateOnce(ctx context.Context, content, examType, seed string, countOverride int) ([]Question, error) {
	var prompt string
	if examType == ExamTypeTest {
		count := llm.TestQuestionCount
		if countOverride > 0 {
			count = countOverride
		}
		prompt = llm.TestPrompt(content, count, seed)
	} else {
		count := llm.DevelopmentQuestionCount
		if countOverride > 0 {
			count = countOverride
		}
		prompt = llm.DevelopmentPrompt(content, count, seed)
	}

	raw, err := s.completer.Complete(ctx, prompt, llm.CompletionOptions{Temperature: 0.7, MaxTokens: 4000})
	if err != nil {
		return nil, Errf(KindUpstream, "question generation failed: %w", err)
	}

	data, err := llm.Salvage(raw)
	if err != nil {
		if errors.Is(err, llm.ErrTruncated) {
			return nil, &Error{Kind: KindParse, Msg: "model output truncated", Err: err}
		}
		return nil, Errf(KindParse, "unparseable model output: %w", err)
	}

	var set struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, Errf(KindParse, "unexpected model output shape: %w", err)
	}
	if err := validateQuestions(set.Questions, examType); err != nil {
		return nil, err
	}
	return set.Questions, nil
}

func validateQuestions(qs []Question, examType string) error {
	if len(qs) == 0 {
		return Errf(KindParse, "model returned no questions")
	}
	for i := range qs {
		q := &qs[i]
		if strings.TrimSpace(q.Question) == "" {
			return Errf(KindParse, "question %d has no text", q.ID)
		}
		if q.Type == "" {
			if examType == ExamTypeTest {
				q.Type = TypeMultipleChoice
			} else {
				q.Type = TypeDevelopment
			}
		}
		if q.IsMultipleChoice() && len(q.Options) != 4 {
			return Errf(KindParse, "question %d has %d options, want 4", q.ID, len(q.Options))
		}
	}
	return nil
}

// GradeExam grades multiple-choice questions locally and batches all
// answered development questions into one model call. A failed grading
// call degrades into per-question fallback results instead of discarding
// the locally computed ones. Questions without a matching answer are
// skipped. Results come back sorted by question ID.
func (s *Service) GradeExam(ctx context.Context, questions []Question, answers []UserAnswer) ([]Result, error) {
	if len(questions) == 0 || len(answers) == 0 {
		return nil, Errf(KindValidation, "questions and userAnswers are required")
	}

	results := make([]Result, 0, len(questions))
	var devQuestions []Question
	var devAnswers []UserAnswer

	for _, q := range questions {
		ans, ok := matchAnswer(answers, q.ID)
		if !ok {
			continue
		}
		if q.IsMultipleChoice() {
			results = append(results, gradeChoice(q, ans))
			continue
		}
		if strings.TrimSpace(ans.Effective()) == "" {
			// Nothing to send to the model.
			zero := 0
			results = append(results, Result{
				QuestionID:    q.ID,
				CorrectAnswer: q.ReferenceAnswer(),
				Explanation:   "No answer was provided for this question.",
				Score:         &zero,
			})
			continue
		}
		devQuestions = append(devQuestions, q)
		devAnswers = append(devAnswers, ans)
	}

	if len(devQuestions) > 0 {
		results = append(results, s.gradeDevelopment(ctx, devQuestions, devAnswers)...)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].QuestionID < results[j].QuestionID })
	return results, nil
}

// gradeChoice grades one multiple-choice question locally.
func gradeChoice(q Question, a UserAnswer) Result {
	g := grading.Grade(grading.Q{
		Options:     q.Options,
		AnswerKey:   q.CorrectAnswer,
		Explanation: q.Explanation,
	}, a.Effective())
	return Result{
		QuestionID:    q.ID,
		UserAnswer:    g.UserAnswer,
		CorrectAnswer: g.CorrectAnswer,
		Explanation:   g.Explanation,
		IsCorrect:     g.IsCorrect,
	}
}

// matchAnswer scans for the first answer with the given question ID.
func matchAnswer(answers []UserAnswer, questionID int) (UserAnswer, bool) {
	for _, a := range answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return UserAnswer{}, false
}

// gradeDevelopment grades the batch with one model call. Any failure on
// the way (missing key, upstream error, unparseable output) converts into
// fallback results so one model failure cannot lose the whole exam.
func (s *Service) gradeDevelopment(ctx context.Context, questions []Question, answers []UserAnswer) []Result {
	graded, err := s.gradeDevelopmentOnce(ctx, questions, answers)
	if err != nil {
		log.Printf("development grading failed, falling back: %v", err)
		return fallbackResults(questions, answers, err)
	}

	byID := make(map[int]Result, len(graded))
	for _, r := range graded {
		byID[r.QuestionID] = r
	}
	out := make([]Result, 0, len(questions))
	for i, q := range questions {
		r, ok := byID[q.ID]
		if !ok {
			out = append(out, fallbackResults(questions[i:i+1], answers[i:i+1], errors.New("model returned no result for this question"))...)
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Service) gradeDevelopmentOnce(ctx context.Context, questions []Question, answers []UserAnswer) ([]Result, error) {
	if s.completer == nil {
		return nil, Errf(KindConfig, "GROQ_API_KEY not configured for development question grading")
	}

	type answerPayload struct {
		QuestionID int    `json:"questionId"`
		Answer     string `json:"answer"`
	}
	payload := struct {
		Questions []Question      `json:"questions"`
		Answers   []answerPayload `json:"user_answers"`
	}{Questions: questions}
	for _, a := range answers {
		payload.Answers = append(payload.Answers, answerPayload{QuestionID: a.QuestionID, Answer: a.Effective()})
	}
	examJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal grading payload: %w", err)
	}

	raw, err := s.completer.Complete(ctx, llm.GradingPrompt(string(examJSON)), llm.CompletionOptions{Temperature: 0.3, MaxTokens: 3000})
	if err != nil {
		return nil, Errf(KindUpstream, "grading call failed: %w", err)
	}
	data, err := llm.Salvage(raw)
	if err != nil {
		return nil, Errf(KindParse, "unparseable grading output: %w", err)
	}

	var resp struct {
		Results []struct {
			QuestionID    int    `json:"questionId"`
			UserAnswer    string `json:"userAnswer"`
			CorrectAnswer string `json:"correctAnswer"`
			Explanation   string `json:"explanation"`
			IsCorrect     *bool  `json:"isCorrect"`
			Score         *int   `json:"score"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, Errf(KindParse, "unexpected grading output shape: %w", err)
	}

	out := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		res := Result{
			QuestionID:    r.QuestionID,
			UserAnswer:    r.UserAnswer,
			CorrectAnswer: r.CorrectAnswer,
			Explanation:   r.Explanation,
			Score:         r.Score,
		}
		switch {
		case r.IsCorrect != nil:
			res.IsCorrect = *r.IsCorrect
		case r.Score != nil:
			res.IsCorrect = *r.Score >= 60
		}
		out = append(out, res)
	}
	return out, nil
}

// fallbackResults marks every question incorrect with the failure reason,
// preserving the user's answer text.
func fallbackResults(questions []Question, answers []UserAnswer, cause error) []Result {
	out := make([]Result, 0, len(questions))
	for i, q := range questions {
		userAnswer := ""
		if i < len(answers) {
			userAnswer = answers[i].Effective()
		}
		out = append(out, Result{
			QuestionID:    q.ID,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.ReferenceAnswer(),
			Explanation:   fmt.Sprintf("Automatic grading was unavailable for this answer: %v", cause),
			IsCorrect:     false,
		})
	}
	return out
}
