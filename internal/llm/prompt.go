package llm

import "fmt"

const (
	// MaxContentChars caps embedded source content so the prompt stays
	// inside the model's token budget.
	MaxContentChars = 6000

	TestQuestionCount        = 20
	DevelopmentQuestionCount = 5
	// RetryQuestionCount is the reduced count used for the single retry
	// after a truncated test-type generation.
	RetryQuestionCount = 10
)

// TruncateContent cuts content to MaxContentChars characters and appends
// an ellipsis marker when anything was dropped.
func TruncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxContentChars {
		return content
	}
	return string(runes[:MaxContentChars]) + "..."
}

// TestPrompt asks for count multiple-choice questions over content.
// The JSON shape is spelled out verbatim so the model cannot misread the
// field names. seed is an optional variety hint.
func TestPrompt(content string, count int, seed string) string {
	return fmt.Sprintf(`Based on the following source content, generate exactly %d multiple-choice exam questions.

CONTENT:
%s

INSTRUCTIONS:
- Create exactly %d multiple-choice questions covering the most important points of the content
- Each question must have exactly 4 options (A, B, C, D)
- Exactly one option is correct
- Include a detailed explanation of why the correct answer is correct
- Vary the difficulty across questions%s

RESPONSE FORMAT (JSON):
{
  "questions": [
    {
      "id": 1,
      "question": "Question text here",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": "A",
      "explanation": "Why this answer is correct",
      "type": "multiple-choice"
    }
  ]
}

Respond ONLY with the JSON, no additional text, no markdown.`, count, content, count, seedHint(seed))
}

// DevelopmentPrompt asks for count open-ended questions, each with a
// model answer and grading criteria, and no options field.
func DevelopmentPrompt(content string, count int, seed string) string {
	return fmt.Sprintf(`Based on the following source content, generate exactly %d open-ended development exam questions.

CONTENT:
%s

INSTRUCTIONS:
- Create exactly %d development questions that require analysis, synthesis or detailed explanation
- Do NOT include multiple-choice options
- Provide a detailed model answer for each question
- Provide grading criteria describing the key points a good answer must cover%s

RESPONSE FORMAT (JSON):
{
  "questions": [
    {
      "id": 1,
      "question": "Question requiring extended development and analysis",
      "correct_answer": "Detailed model answer covering the key concepts",
      "expectedAnswer": "Detailed model answer covering the key concepts",
      "explanation": "Grading criteria and key points to look for",
      "type": "development"
    }
  ]
}

Respond ONLY with the JSON, no additional text, no markdown.`, count, content, count, seedHint(seed))
}

// GradingPrompt asks the model to grade a batch of development questions.
// examJSON is the pretty-printed questions-and-answers payload.
func GradingPrompt(examJSON string) string {
	return fmt.Sprintf(`Grade these open-ended development exam answers and provide detailed feedback in JSON format.

EXAM DATA:
%s

INSTRUCTIONS:
1. These are all development (open-ended) questions, not multiple choice
2. Score each answer from 0 to 100 based on factual accuracy, understanding of the topic, completeness and correct terminology
3. Provide a detailed explanation of each grade and what was expected
4. Mark the answer correct when the score is 60 or higher, incorrect below 60

RESPONSE FORMAT (JSON):
{
  "results": [
    {
      "questionId": 1,
      "userAnswer": "the student's answer",
      "correctAnswer": "the expected model answer",
      "explanation": "detailed explanation of the grade",
      "isCorrect": true,
      "score": 85
    }
  ]
}

Respond ONLY with the JSON, no additional text, no markdown.`, examJSON)
}

func seedHint(seed string) string {
	if seed == "" {
		return ""
	}
	return fmt.Sprintf("\n- Use this random seed to vary the questions between runs: %s", seed)
}
