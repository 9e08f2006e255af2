package exam_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/exam-forge/examforge/internal/exam"
	"github.com/exam-forge/examforge/internal/llm"
)

// fakeCompleter scripts one response (or error) per expected call.
type fakeCompleter struct {
	responses []string
	errs      []error
	prompts   []string
	opts      []llm.CompletionOptions
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, opts llm.CompletionOptions) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("unscripted call")
}

const mcqSetJSON = `{"questions":[{"id":1,"question":"Q1","options":["a","b","c","d"],"correct_answer":"A","explanation":"e1","type":"multiple-choice"}]}`

const truncatedSetJSON = `{"questions":[{"id":1,"question":"Q1","options":["a","b","c","d"],"correct_answer":"A","explanation":"e1","type":"multiple-choice"},`

func TestGenerateQuestions(t *testing.T) {
	f := &fakeCompleter{responses: []string{"```json\n" + mcqSetJSON + "\n```"}}
	svc := exam.NewService(f)

	qs, err := svc.GenerateQuestions(context.Background(), "some source content", exam.ExamTypeTest, "seed")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 1 || qs[0].Question != "Q1" {
		t.Fatalf("unexpected questions: %+v", qs)
	}
	if len(f.prompts) != 1 {
		t.Fatalf("want 1 model call, got %d", len(f.prompts))
	}
	if f.opts[0].Temperature != 0.7 || f.opts[0].MaxTokens != 4000 {
		t.Errorf("generation options = %+v", f.opts[0])
	}
	if !strings.Contains(f.prompts[0], "some source content") {
		t.Error("content not embedded in prompt")
	}
}

func TestGenerateQuestionsRetriesOnceOnTruncation(t *testing.T) {
	f := &fakeCompleter{responses: []string{truncatedSetJSON, mcqSetJSON}}
	svc := exam.NewService(f)

	qs, err := svc.GenerateQuestions(context.Background(), "content", exam.ExamTypeTest, "")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("unexpected questions: %+v", qs)
	}
	if len(f.prompts) != 2 {
		t.Fatalf("want 2 model calls, got %d", len(f.prompts))
	}
	if !strings.Contains(f.prompts[0], "exactly 20 multiple-choice") {
		t.Error("first attempt should ask for 20 questions")
	}
	if !strings.Contains(f.prompts[1], "exactly 10 multiple-choice") {
		t.Error("retry should ask for 10 questions")
	}
}

func TestGenerateQuestionsSurfacesErrorAfterFailedRetry(t *testing.T) {
	f := &fakeCompleter{responses: []string{truncatedSetJSON, truncatedSetJSON}}
	svc := exam.NewService(f)

	_, err := svc.GenerateQuestions(context.Background(), "content", exam.ExamTypeTest, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if exam.KindOf(err) != exam.KindParse {
		t.Errorf("kind = %v, want parse", exam.KindOf(err))
	}
	if len(f.prompts) != 2 {
		t.Fatalf("want exactly 2 model calls (one retry), got %d", len(f.prompts))
	}
}

func TestGenerateQuestionsNoRetryForDevelopment(t *testing.T) {
	f := &fakeCompleter{responses: []string{`{"questions":[{"id":1,"question":"Explain`}}
	svc := exam.NewService(f)

	_, err := svc.GenerateQuestions(context.Background(), "content", exam.ExamTypeDevelopment, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.prompts) != 1 {
		t.Fatalf("development truncation must not retry, got %d calls", len(f.prompts))
	}
}

func TestGenerateQuestionsValidation(t *testing.T) {
	svc := exam.NewService(&fakeCompleter{})

	if _, err := svc.GenerateQuestions(context.Background(), "   \x00", exam.ExamTypeTest, ""); exam.KindOf(err) != exam.KindValidation {
		t.Errorf("empty content: kind = %v, want validation", exam.KindOf(err))
	}
	if _, err := svc.GenerateQuestions(context.Background(), "content", "essay", ""); exam.KindOf(err) != exam.KindValidation {
		t.Errorf("bad exam type: kind = %v, want validation", exam.KindOf(err))
	}
}

func TestGenerateQuestionsWithoutAPIKey(t *testing.T) {
	svc := exam.NewService(nil)
	_, err := svc.GenerateQuestions(context.Background(), "content", exam.ExamTypeTest, "")
	if exam.KindOf(err) != exam.KindConfig {
		t.Fatalf("kind = %v, want config", exam.KindOf(err))
	}
	if !strings.Contains(err.Error(), "GROQ_API_KEY") {
		t.Errorf("error must name the missing variable: %v", err)
	}
}

func TestGenerateQuestionsUpstreamError(t *testing.T) {
	f := &fakeCompleter{errs: []error{errors.New("429 rate limited")}}
	svc := exam.NewService(f)
	_, err := svc.GenerateQuestions(context.Background(), "content", exam.ExamTypeTest, "")
	if exam.KindOf(err) != exam.KindUpstream {
		t.Fatalf("kind = %v, want upstream", exam.KindOf(err))
	}
	if !strings.Contains(err.Error(), "429 rate limited") {
		t.Errorf("upstream text lost: %v", err)
	}
}

func TestGenerateQuestionsRejectsBadShape(t *testing.T) {
	cases := []struct {
		name string
		resp string
	}{
		{"empty set", `{"questions":[]}`},
		{"missing question text", `{"questions":[{"id":1,"options":["a","b","c","d"],"correct_answer":"A"}]}`},
		{"wrong option count", `{"questions":[{"id":1,"question":"Q","options":["a","b"],"correct_answer":"A","type":"multiple-choice"}]}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := exam.NewService(&fakeCompleter{responses: []string{c.resp}})
			_, err := svc.GenerateQuestions(context.Background(), "content", exam.ExamTypeTest, "")
			if exam.KindOf(err) != exam.KindParse {
				t.Errorf("kind = %v, want parse (err %v)", exam.KindOf(err), err)
			}
		})
	}
}

func mixedExam() ([]exam.Question, []exam.UserAnswer) {
	questions := []exam.Question{
		{ID: 1, Question: "mcq", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "B", Explanation: "e1", Type: exam.TypeMultipleChoice},
		{ID: 2, Question: "essay", CorrectAnswer: "model answer", Explanation: "e2", Type: exam.TypeDevelopment},
	}
	answers := []exam.UserAnswer{
		{QuestionID: 1, Answer: "1"},
		{QuestionID: 2, TextAnswer: "my long answer"},
	}
	return questions, answers
}

func TestGradeExamLocalOnly(t *testing.T) {
	f := &fakeCompleter{}
	svc := exam.NewService(f)
	questions := []exam.Question{
		{ID: 2, Question: "q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "C", Type: exam.TypeMultipleChoice},
		{ID: 1, Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "A", Type: exam.TypeMultipleChoice},
	}
	answers := []exam.UserAnswer{
		{QuestionID: 1, Answer: "0"},
		{QuestionID: 2, Answer: "Z"},
	}

	results, err := svc.GradeExam(context.Background(), questions, answers)
	if err != nil {
		t.Fatalf("GradeExam: %v", err)
	}
	if len(f.prompts) != 0 {
		t.Fatalf("multiple-choice grading must not call the model, got %d calls", len(f.prompts))
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	if results[0].QuestionID != 1 || results[1].QuestionID != 2 {
		t.Errorf("results not sorted by questionId: %+v", results)
	}
	if !results[0].IsCorrect || results[1].IsCorrect {
		t.Errorf("grading wrong: %+v", results)
	}
	if results[0].Score != nil || results[1].Score != nil {
		t.Errorf("multiple-choice results must not carry scores: %+v", results)
	}
}

func TestGradeExamSkipsUnansweredQuestions(t *testing.T) {
	svc := exam.NewService(&fakeCompleter{})
	questions := []exam.Question{
		{ID: 1, Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "A", Type: exam.TypeMultipleChoice},
		{ID: 9, Question: "q9", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "A", Type: exam.TypeMultipleChoice},
	}
	answers := []exam.UserAnswer{{QuestionID: 1, Answer: "A"}}

	results, err := svc.GradeExam(context.Background(), questions, answers)
	if err != nil {
		t.Fatalf("GradeExam: %v", err)
	}
	if len(results) != 1 || results[0].QuestionID != 1 {
		t.Fatalf("unanswered question must be silently skipped: %+v", results)
	}
}

func TestGradeExamDevelopmentBatch(t *testing.T) {
	resp := "```json\n" + `{"results":[{"questionId":2,"userAnswer":"my long answer","correctAnswer":"model answer","explanation":"good","score":85}]}` + "\n```"
	f := &fakeCompleter{responses: []string{resp}}
	svc := exam.NewService(f)
	questions, answers := mixedExam()

	results, err := svc.GradeExam(context.Background(), questions, answers)
	if err != nil {
		t.Fatalf("GradeExam: %v", err)
	}
	if len(f.prompts) != 1 {
		t.Fatalf("development questions must be graded in one batched call, got %d", len(f.prompts))
	}
	if f.opts[0].Temperature != 0.3 || f.opts[0].MaxTokens != 3000 {
		t.Errorf("grading options = %+v", f.opts[0])
	}
	if !strings.Contains(f.prompts[0], "my long answer") {
		t.Error("user answer not embedded in grading prompt")
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d: %+v", len(results), results)
	}
	dev := results[1]
	if dev.QuestionID != 2 || dev.Score == nil || *dev.Score != 85 {
		t.Fatalf("development result wrong: %+v", dev)
	}
	if !dev.IsCorrect {
		t.Error("score 85 with omitted isCorrect must derive correct")
	}
}

func TestGradeExamDevelopmentFallbackKeepsLocalResults(t *testing.T) {
	f := &fakeCompleter{errs: []error{errors.New("boom")}}
	svc := exam.NewService(f)
	questions, answers := mixedExam()

	results, err := svc.GradeExam(context.Background(), questions, answers)
	if err != nil {
		t.Fatalf("GradeExam must not fail the batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	if mcq := results[0]; mcq.QuestionID != 1 || !mcq.IsCorrect {
		t.Errorf("local result lost on model failure: %+v", mcq)
	}
	dev := results[1]
	if dev.QuestionID != 2 || dev.IsCorrect {
		t.Errorf("fallback result must be incorrect: %+v", dev)
	}
	if dev.UserAnswer != "my long answer" {
		t.Errorf("fallback must keep user answer: %+v", dev)
	}
	if !strings.Contains(dev.Explanation, "unavailable") {
		t.Errorf("fallback must explain the failure: %+v", dev)
	}
}

func TestGradeExamDevelopmentFallbackOnUnparseableOutput(t *testing.T) {
	f := &fakeCompleter{responses: []string{"I graded it, they did great!"}}
	svc := exam.NewService(f)
	questions, answers := mixedExam()

	results, err := svc.GradeExam(context.Background(), questions, answers)
	if err != nil {
		t.Fatalf("GradeExam: %v", err)
	}
	if len(results) != 2 || results[1].IsCorrect {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestGradeExamEmptyDevelopmentAnswerSkipsModel(t *testing.T) {
	f := &fakeCompleter{}
	svc := exam.NewService(f)
	questions := []exam.Question{{ID: 1, Question: "essay", ExpectedAnswer: "model answer", Type: exam.TypeDevelopment}}
	answers := []exam.UserAnswer{{QuestionID: 1}}

	results, err := svc.GradeExam(context.Background(), questions, answers)
	if err != nil {
		t.Fatalf("GradeExam: %v", err)
	}
	if len(f.prompts) != 0 {
		t.Fatal("empty answers must not reach the model")
	}
	if len(results) != 1 {
		t.Fatalf("want 1 result, got %d", len(results))
	}
	r := results[0]
	if r.IsCorrect || r.Score == nil || *r.Score != 0 || r.CorrectAnswer != "model answer" {
		t.Errorf("unexpected result: %+v", r)
	}
	if !strings.Contains(r.Explanation, "No answer") {
		t.Errorf("explanation must say the answer was missing, got %q", r.Explanation)
	}
}

func TestGradeExamValidation(t *testing.T) {
	svc := exam.NewService(&fakeCompleter{})
	if _, err := svc.GradeExam(context.Background(), nil, nil); exam.KindOf(err) != exam.KindValidation {
		t.Errorf("kind = %v, want validation", exam.KindOf(err))
	}
}
