package domain

import (
	"strings"
	"time"
)

// QuestionType identifies the kind of question and determines which
// fields are required on it.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	CaseScenario   QuestionType = "case_scenario"
	OpenEnded      QuestionType = "open_ended"
	TrueFalse      QuestionType = "true_false"
)

// AllQuestionTypes is the canonical ordering used when normalizing a
// request's type selection.
var AllQuestionTypes = []QuestionType{MultipleChoice, CaseScenario, OpenEnded, TrueFalse}

// ParseQuestionType maps external names onto a QuestionType.
func ParseQuestionType(s string) (QuestionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "mcq", "multiple choice question":
		return MultipleChoice, true
	case "case_scenario", "case scenario multiple choice question":
		return CaseScenario, true
	case "open_ended", "understanding question", "understanding":
		return OpenEnded, true
	case "true_false", "true/false question", "truefalse":
		return TrueFalse, true
	}
	return "", false
}

// HasOptions reports whether questions of this type carry an option list.
func (t QuestionType) HasOptions() bool {
	return t == MultipleChoice || t == TrueFalse
}

// Question is a single generated quiz question.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Prompt      string       `json:"prompt"`
	CaseDetails string       `json:"case_details,omitempty"`
	Options     []string     `json:"options,omitempty"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation,omitempty"`
}

// CorrectOption returns the index of the answer within Options.
// Matching is exact first, then case-insensitive. Returns -1 when the
// answer does not reference any option.
func (q *Question) CorrectOption() int {
	answer := strings.TrimSpace(q.Answer)
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == answer {
			return i
		}
	}
	for i, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) {
			return i
		}
	}
	return -1
}

// Validate checks the per-type field requirements.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return NewInvalidInputError("prompt", "must not be empty")
	}
	if q.Type.HasOptions() {
		if len(q.Options) < 2 {
			return NewInvalidInputError("options", "at least two options are required")
		}
		if q.CorrectOption() < 0 {
			return NewInvalidInputError("answer", "must reference one of the options")
		}
	}
	return nil
}

// Quiz is an ordered collection of questions produced for one
// generation request. It is owned by the generation client until handed
// to delivery and is read-only thereafter.
type Quiz struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
	// Shortfall is set when fewer valid questions were produced than
	// requested. Not an error: availability over strict exactness.
	Shortfall     bool      `json:"shortfall,omitempty"`
	Requested     int       `json:"requested"`
	SourceSummary string    `json:"source_summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
