package quizgen

import (
	"fmt"
	"strings"

	"quizgram/internal/domain"
)

var typeInstructions = map[domain.QuestionType]string{
	domain.MultipleChoice: `"multiple_choice": a question with exactly 4 "options" and an "answer" that is one of them`,
	domain.TrueFalse:      `"true_false": a statement with "options" ["True", "False"] and an "answer" of "True" or "False"`,
	domain.OpenEnded:      `"open_ended": a comprehension question with a concise model "answer" and no options`,
	domain.CaseScenario:   `"case_scenario": a short clinical or practical scenario in "case_details" followed by an open "question" with a model "answer"`,
}

// BuildPrompt renders the single structured prompt describing the
// desired question types, difficulty and count. It is deterministic for
// a given request.
func BuildPrompt(req *domain.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert quiz generator. Create exactly %d unique, high-quality quiz questions from the study material below.\n\n", req.Amount)

	b.WriteString("Use only the following question types:\n")
	for _, t := range req.QuestionTypes {
		fmt.Fprintf(&b, "- %s\n", typeInstructions[t])
	}

	b.WriteString("\nDifficulty: ")
	b.WriteString(string(req.Difficulty))
	if containsType(req.QuestionTypes, domain.TrueFalse) {
		// True/False questions are always generated at basic difficulty.
		b.WriteString(` (true_false questions are always "easy")`)
	}
	b.WriteString("\n\n")

	b.WriteString(`Respond with ONLY a single JSON array. Each element must be an object with the fields:
  "type": one of the question type names above
  "question": the question text
  "options": array of answer options (multiple_choice and true_false only)
  "answer": the correct answer; for option-based questions it must match one of the options exactly
  "explanation": a brief explanation of the correct answer
  "case_details": the scenario text (case_scenario only)

Study material:
---
`)
	b.WriteString(req.SourceText)
	b.WriteString("\n---\n")

	return b.String()
}

func containsType(types []domain.QuestionType, t domain.QuestionType) bool {
	for _, qt := range types {
		if qt == t {
			return true
		}
	}
	return false
}
