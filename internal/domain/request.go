package domain

// PageRange restricts document ingestion to the pages [Start, End],
// 1-indexed inclusive.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Clamp bounds the range to a document's actual page count. Out-of-range
// bounds are clamped rather than rejected; an unset (zero) end means
// "through the last page".
func (r PageRange) Clamp(totalPages int) PageRange {
	start, end := r.Start, r.End
	if start < 1 {
		start = 1
	}
	if start > totalPages {
		start = totalPages
	}
	if end < 1 || end > totalPages {
		end = totalPages
	}
	if end < start {
		end = start
	}
	return PageRange{Start: start, End: end}
}

// Difficulty of the requested questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps an external difficulty name; unknown values fail.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), true
	}
	return "", false
}

// GenerationRequest is the canonical, normalized form of one quiz
// generation. SourceText is always the already-extracted text; the
// builder never sees raw file bytes. Immutable once built.
type GenerationRequest struct {
	SourceText    string
	QuestionTypes []QuestionType
	Difficulty    Difficulty
	Amount        int
	PageRange     *PageRange
}
