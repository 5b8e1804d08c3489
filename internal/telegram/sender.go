package telegram

import (
	"context"
	"time"

	"quizgram/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

// Pauses between consecutive sends to stay under Telegram's per-chat
// rate limits.
const (
	pollSendDelay    = 100 * time.Millisecond
	messageSendDelay = 500 * time.Millisecond
)

// Sender implements domain.QuizDispatcher over the Telegram Bot API.
// Multiple-choice and true/false questions become quiz polls; open and
// case questions become plain messages carrying the model answer.
type Sender struct {
	bot    *tele.Bot
	logger *zap.Logger
}

func NewSender(bot *tele.Bot, logger *zap.Logger) domain.QuizDispatcher {
	return &Sender{bot: bot, logger: logger}
}

// DispatchQuiz sends the quiz question by question. Questions that
// cannot be represented in the channel are skipped; the dispatch fails
// only when nothing could be sent at all.
func (s *Sender) DispatchQuiz(ctx context.Context, chatID int64, quiz *domain.Quiz) (sent, skipped int, err error) {
	recipient := tele.ChatID(chatID)
	var lastErr error

	for i := range quiz.Questions {
		if err := ctx.Err(); err != nil {
			return sent, skipped, err
		}

		q := &quiz.Questions[i]
		var sendErr error
		var delay time.Duration

		if q.Type.HasOptions() {
			poll, ok := pollFor(q)
			if !ok {
				s.logger.Warn("Skipping question unrepresentable as poll",
					zap.String("question_id", q.ID),
				)
				skipped++
				continue
			}
			_, sendErr = s.bot.Send(recipient, poll)
			delay = pollSendDelay
		} else {
			_, sendErr = s.bot.Send(recipient, messageFor(q), tele.ModeMarkdown)
			delay = messageSendDelay
		}

		if sendErr != nil {
			s.logger.Error("Failed to send question to Telegram",
				zap.String("question_id", q.ID),
				zap.Int64("chat_id", chatID),
				zap.Error(sendErr),
			)
			lastErr = sendErr
			skipped++
			continue
		}

		sent++
		if i == len(quiz.Questions)-1 {
			continue
		}
		if err := pause(ctx, delay); err != nil {
			return sent, skipped, err
		}
	}

	if sent == 0 && lastErr != nil {
		return 0, skipped, lastErr
	}
	return sent, skipped, nil
}

// pause waits out the rate-limit delay unless the context ends first.
func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
