package telegram

import (
	"fmt"
	"net/http"

	"quizgram/internal/config"

	tele "gopkg.in/telebot.v4"
)

// NewBot creates the shared Telegram bot client. No poller is attached;
// the bot is used for outbound sends only.
func NewBot(cfg config.TelegramConfig) (*tele.Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Client: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}
