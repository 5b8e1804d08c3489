package dto

import (
	"quizgram/internal/domain"
	"quizgram/internal/telegram"
)

// QuestionResponse represents a question in the API response
type QuestionResponse struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	CaseDetails string   `json:"case_details,omitempty"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Generated quiz with its questions and shortfall notice
type QuizResponse struct {
	ID            string             `json:"id"`
	Questions     []QuestionResponse `json:"questions"`
	Requested     int                `json:"requested"`
	Shortfall     bool               `json:"shortfall,omitempty"`
	SourceSummary string             `json:"source_summary,omitempty"`
	CreatedAt     string             `json:"created_at"`
}

// FromQuiz maps the domain model onto the response shape.
func FromQuiz(quiz *domain.Quiz) QuizResponse {
	questions := make([]QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, QuestionResponse{
			ID:          q.ID,
			Type:        string(q.Type),
			Prompt:      q.Prompt,
			CaseDetails: q.CaseDetails,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}
	return QuizResponse{
		ID:            quiz.ID,
		Questions:     questions,
		Requested:     quiz.Requested,
		Shortfall:     quiz.Shortfall,
		SourceSummary: quiz.SourceSummary,
		CreatedAt:     quiz.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// SendQuizRequest carries the launch data for a Telegram delivery.
// @Description Request body for sending a quiz to Telegram
type SendQuizRequest struct {
	telegram.LaunchData
}

// DeliveryResponse acknowledges a quiz delivery.
type DeliveryResponse struct {
	Success   bool   `json:"success"`
	Sent      int    `json:"sent"`
	Skipped   int    `json:"skipped"`
	Shortfall bool   `json:"shortfall,omitempty"`
	Message   string `json:"message,omitempty"`
}

// IdentityResponse returns the resolved Telegram identity.
type IdentityResponse struct {
	Success  bool   `json:"success"`
	UserID   string `json:"user_id,omitempty"`
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// NotifyAdminRequest carries the context of a mini-app open event.
type NotifyAdminRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Page     string `json:"page"`
}

// NotifyAdminResponse acknowledges an admin notification request.
type NotifyAdminResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
