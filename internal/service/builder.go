package service

import (
	"strings"

	"quizgram/internal/domain"
)

// RawGenerationInput carries the user's raw, unvalidated generation
// parameters as they arrive from the transport layer.
type RawGenerationInput struct {
	SourceText    string
	QuestionTypes []string
	Difficulty    string
	Amount        int
	PageRange     *domain.PageRange
}

// RequestBuilder validates and normalizes raw inputs into one canonical
// GenerationRequest. Normalization is deterministic: identical inputs
// always produce an identical request.
type RequestBuilder struct {
	maxQuestions int
	maxTextChars int
}

func NewRequestBuilder(maxQuestions, maxTextChars int) *RequestBuilder {
	return &RequestBuilder{maxQuestions: maxQuestions, maxTextChars: maxTextChars}
}

// Build fails with INVALID_INPUT naming the first offending field.
// Invalid fields are never silently dropped.
func (b *RequestBuilder) Build(in RawGenerationInput) (*domain.GenerationRequest, error) {
	sourceText := strings.TrimSpace(in.SourceText)
	if sourceText == "" {
		return nil, domain.NewInvalidInputError("source_text", "must not be empty")
	}
	sourceText = truncateRunes(sourceText, b.maxTextChars)

	types, err := normalizeTypes(in.QuestionTypes)
	if err != nil {
		return nil, err
	}

	difficulty := domain.DifficultyMedium
	if in.Difficulty != "" {
		parsed, ok := domain.ParseDifficulty(in.Difficulty)
		if !ok {
			return nil, domain.NewInvalidInputError("difficulty", "must be easy, medium or hard")
		}
		difficulty = parsed
	}

	if in.Amount < 1 || in.Amount > b.maxQuestions {
		return nil, domain.NewInvalidInputError("amount", "must be between 1 and the configured maximum")
	}

	if in.PageRange != nil {
		if in.PageRange.Start < 1 || in.PageRange.End < 1 {
			return nil, domain.NewInvalidInputError("page_range", "pages must be positive")
		}
		if in.PageRange.Start > in.PageRange.End {
			return nil, domain.NewInvalidInputError("page_range", "start must not exceed end")
		}
	}

	return &domain.GenerationRequest{
		SourceText:    sourceText,
		QuestionTypes: types,
		Difficulty:    difficulty,
		Amount:        in.Amount,
		PageRange:     in.PageRange,
	}, nil
}

// normalizeTypes parses, deduplicates and orders the selected types by
// their canonical enum order so that selection order does not leak into
// the request.
func normalizeTypes(raw []string) ([]domain.QuestionType, error) {
	selected := make(map[domain.QuestionType]bool, len(raw))
	for _, name := range raw {
		t, ok := domain.ParseQuestionType(name)
		if !ok {
			return nil, domain.NewInvalidInputError("question_types", "unknown question type: "+name)
		}
		selected[t] = true
	}
	if len(selected) == 0 {
		return nil, domain.NewInvalidInputError("question_types", "at least one question type is required")
	}

	var types []domain.QuestionType
	for _, t := range domain.AllQuestionTypes {
		if selected[t] {
			types = append(types, t)
		}
	}
	return types, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
