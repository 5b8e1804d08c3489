package telegram

import (
	"fmt"
	"strings"

	"quizgram/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// Telegram Bot API limits.
const (
	maxPollQuestionLen    = 300
	maxPollOptionLen      = 100
	maxPollExplanationLen = 200
	maxMessageLen         = 4096
)

// questionText renders the poll/message header, prefixing the case
// scenario when present.
func questionText(q *domain.Question) string {
	if q.CaseDetails != "" {
		return fmt.Sprintf("📋 %s\n\n❓ %s", q.CaseDetails, q.Prompt)
	}
	return "❓ " + q.Prompt
}

// pollFor builds a Telegram quiz poll for an option-based question.
// Returns false when the question cannot be represented within the
// poll limits (fewer than two options survive, or no correct option).
func pollFor(q *domain.Question) (*tele.Poll, bool) {
	var options []string
	for _, opt := range q.Options {
		opt = strings.TrimSpace(opt)
		if opt != "" && len(opt) <= maxPollOptionLen {
			options = append(options, opt)
		}
	}
	if len(options) < 2 {
		return nil, false
	}

	correct := (&domain.Question{Options: options, Answer: q.Answer}).CorrectOption()
	if correct < 0 {
		return nil, false
	}

	poll := &tele.Poll{
		Type:          tele.PollQuiz,
		Question:      truncate(questionText(q), maxPollQuestionLen),
		Anonymous:     true,
		CorrectOption: correct,
		Explanation:   truncate(q.Explanation, maxPollExplanationLen),
	}
	poll.AddOptions(options...)
	return poll, true
}

// messageFor renders an open-ended question as a plain message with its
// answer and explanation.
func messageFor(q *domain.Question) string {
	answer := q.Answer
	if answer == "" {
		answer = "No answer provided"
	}

	msg := fmt.Sprintf("%s\n\n✅ *Answer:* %s", questionText(q), answer)
	if q.Explanation != "" && q.Explanation != answer {
		msg += fmt.Sprintf("\n\n💡 *Explanation:* %s", q.Explanation)
	}
	return truncate(msg, maxMessageLen)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
