package telegram

import (
	"fmt"

	"quizgram/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

// Notifier sends best-effort admin notifications. Every send runs in
// its own goroutine with an isolated error boundary; a failure is
// logged and swallowed, never surfaced to the request path.
type Notifier struct {
	bot         *tele.Bot
	adminChatID int64
	logger      *zap.Logger
}

// NewNotifier creates the admin notifier. A nil bot or zero chat id
// disables it quietly.
func NewNotifier(bot *tele.Bot, adminChatID int64, logger *zap.Logger) domain.AdminNotifier {
	return &Notifier{bot: bot, adminChatID: adminChatID, logger: logger}
}

func (n *Notifier) NotifyAppOpened(userID, userName, page string) {
	if n.bot == nil || n.adminChatID == 0 {
		return
	}
	if userName == "" {
		userName = "Unknown"
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.logger.Warn("Admin notification panicked", zap.Any("panic", r))
			}
		}()

		msg := fmt.Sprintf("📱 Mini app opened\n\nUser: %s\nName: %s\nPage: %s", userID, userName, page)
		if _, err := n.bot.Send(tele.ChatID(n.adminChatID), msg); err != nil {
			n.logger.Warn("Failed to send admin notification", zap.Error(err))
		}
	}()
}
