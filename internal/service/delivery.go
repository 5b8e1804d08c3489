package service

import (
	"context"
	"errors"
	"strconv"

	"quizgram/internal/domain"

	"go.uber.org/zap"
)

// DeliveryService routes a completed quiz to its target channel.
type DeliveryService struct {
	store      domain.QuizStore
	dispatcher domain.QuizDispatcher
	logger     *zap.Logger
}

func NewDeliveryService(store domain.QuizStore, dispatcher domain.QuizDispatcher, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{store: store, dispatcher: dispatcher, logger: logger}
}

// DeliverByID resolves the quiz reference and delivers it.
func (s *DeliveryService) DeliverByID(ctx context.Context, quizID string, target domain.DeliveryTarget, user domain.TelegramUserInfo) (*domain.DeliveryResult, error) {
	quiz, err := s.store.Find(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return s.Deliver(ctx, quiz, target, user)
}

// Deliver routes the quiz. The web target is a plain hand-off; the
// Telegram target is identity-gated and performs no transport call
// without a resolved user id. Delivery is not retried automatically;
// retries are a user-initiated action at this layer.
func (s *DeliveryService) Deliver(ctx context.Context, quiz *domain.Quiz, target domain.DeliveryTarget, user domain.TelegramUserInfo) (*domain.DeliveryResult, error) {
	switch target {
	case domain.TargetWeb:
		return &domain.DeliveryResult{
			Target:    domain.TargetWeb,
			Sent:      len(quiz.Questions),
			Shortfall: quiz.Shortfall,
		}, nil

	case domain.TargetTelegram:
		if !user.HasID() {
			return nil, domain.NewMissingIdentityError()
		}
		chatID, err := strconv.ParseInt(user.ID, 10, 64)
		if err != nil {
			return nil, domain.NewInvalidInputError("user_id", "must be a numeric Telegram id")
		}

		sent, skipped, err := s.dispatcher.DispatchQuiz(ctx, chatID, quiz)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, domain.NewTimeoutError("telegram delivery", err)
			}
			return nil, domain.NewDeliveryFailedError(err)
		}

		s.logger.Info("Quiz delivered to Telegram",
			zap.String("quiz_id", quiz.ID),
			zap.Int64("chat_id", chatID),
			zap.Int("sent", sent),
			zap.Int("skipped", skipped),
		)
		return &domain.DeliveryResult{
			Target:    domain.TargetTelegram,
			Sent:      sent,
			Skipped:   skipped,
			Shortfall: quiz.Shortfall,
		}, nil

	default:
		return nil, domain.NewInvalidInputError("target", "must be web or telegram")
	}
}
