package domain

import "context"

// QuizGenerator defines the interface for producing a quiz from a
// normalized generation request.
type QuizGenerator interface {
	// Generate invokes the backing model and returns a validated Quiz.
	// A partially fulfilled quiz (fewer valid questions than requested)
	// is returned with Shortfall set, not as an error.
	Generate(ctx context.Context, req *GenerationRequest) (*Quiz, error)
}

// QuizStore holds generated quizzes between the generate and deliver
// steps. Entries are TTL-bounded; this is request plumbing, not
// persistence.
type QuizStore interface {
	Save(ctx context.Context, quiz *Quiz) error
	Find(ctx context.Context, id string) (*Quiz, error)
}

// DeliveryTarget selects where a completed quiz is routed.
type DeliveryTarget string

const (
	TargetWeb      DeliveryTarget = "web"
	TargetTelegram DeliveryTarget = "telegram"
)

// DeliveryResult reports the outcome of routing a quiz.
type DeliveryResult struct {
	Target    DeliveryTarget `json:"target"`
	Sent      int            `json:"sent"`
	Skipped   int            `json:"skipped"`
	Shortfall bool           `json:"shortfall,omitempty"`
}

// QuizDispatcher pushes a quiz into a Telegram chat.
type QuizDispatcher interface {
	// DispatchQuiz sends each question as a quiz poll or a plain
	// message, returning counts of sent and skipped questions.
	DispatchQuiz(ctx context.Context, chatID int64, quiz *Quiz) (sent, skipped int, err error)
}

// AdminNotifier sends best-effort notifications to the operator.
// Implementations must never let a failure reach the caller.
type AdminNotifier interface {
	NotifyAppOpened(userID, userName, page string)
}
