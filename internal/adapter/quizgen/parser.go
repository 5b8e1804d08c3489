package quizgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"quizgram/internal/domain"
	"quizgram/internal/util"
)

// decodeEntries extracts the JSON array from a raw model response.
// Models occasionally wrap the payload in prose or reasoning tags, so
// the array is located between the first '[' and the last ']'.
func decodeEntries(raw string) ([]map[string]any, error) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question entries: %w", err)
	}
	return entries, nil
}

// field performs permissive key matching: keys are compared after
// lowercasing and stripping underscores, so "correctAnswer",
// "correct_answer" and "CorrectAnswer" all resolve the same.
func field(entry map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		want := normalizeKey(name)
		for key, value := range entry {
			if normalizeKey(key) == want && value != nil {
				return value, true
			}
		}
	}
	return nil, false
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(k), "_", "")
}

func stringField(entry map[string]any, names ...string) string {
	value, ok := field(entry, names...)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func stringSliceField(entry map[string]any, names ...string) []string {
	value, ok := field(entry, names...)
	if !ok {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// buildQuestion maps one backend entry onto a domain.Question. Entries
// missing required fields are rejected, not fatal.
func buildQuestion(entry map[string]any) (domain.Question, bool) {
	prompt := stringField(entry, "question", "prompt", "text")
	if prompt == "" {
		return domain.Question{}, false
	}

	qType := declaredType(entry)
	options := stringSliceField(entry, "options", "choices")
	answer := stringField(entry, "answer", "correct_answer", "model_answer")

	// A "distractors" payload carries the wrong answers only; the
	// correct answer completes the option list.
	if len(options) == 0 {
		if distractors := stringSliceField(entry, "distractors", "distractor_answers_for_multiple_choice_question"); len(distractors) > 0 && answer != "" {
			options = append(distractors, answer)
		}
	}

	if qType == "" {
		qType = inferType(options)
	}

	if qType == domain.TrueFalse && len(options) == 0 {
		options = []string{"True", "False"}
	}
	if !qType.HasOptions() {
		options = nil
	}

	// The answer may arrive as an index reference into the options.
	if qType.HasOptions() {
		if idx, ok := answerIndex(entry); ok && idx >= 0 && idx < len(options) {
			answer = options[idx]
		}
	}

	if answer == "" {
		return domain.Question{}, false
	}

	return domain.Question{
		ID:          util.NewULID(),
		Type:        qType,
		Prompt:      prompt,
		CaseDetails: stringField(entry, "case_details", "case_scenario_details"),
		Options:     options,
		Answer:      answer,
		Explanation: stringField(entry, "explanation", "explanation_text", "detailed_answer"),
	}, true
}

func declaredType(entry map[string]any) domain.QuestionType {
	raw := stringField(entry, "type", "question_type", "card_type")
	if raw == "" {
		return ""
	}
	if t, ok := domain.ParseQuestionType(raw); ok {
		return t
	}
	// Loose matching for free-form type labels.
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "true") || strings.Contains(lower, "false"):
		return domain.TrueFalse
	case strings.Contains(lower, "case") || strings.Contains(lower, "scenario"):
		return domain.CaseScenario
	case strings.Contains(lower, "understand") || strings.Contains(lower, "open"):
		return domain.OpenEnded
	case strings.Contains(lower, "choice") || strings.Contains(lower, "mcq"):
		return domain.MultipleChoice
	}
	return ""
}

func inferType(options []string) domain.QuestionType {
	if len(options) == 0 {
		return domain.OpenEnded
	}
	if len(options) == 2 && isTrueFalsePair(options[0], options[1]) {
		return domain.TrueFalse
	}
	return domain.MultipleChoice
}

func isTrueFalsePair(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return (a == "true" && b == "false") || (a == "false" && b == "true")
}

func answerIndex(entry map[string]any) (int, bool) {
	value, ok := field(entry, "answer", "correct_answer", "correct_option", "correct_option_id")
	if !ok {
		return 0, false
	}
	if f, ok := value.(float64); ok {
		return int(f), true
	}
	return 0, false
}
