package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"quizgram/internal/config"
	"quizgram/internal/domain"
	"quizgram/internal/util"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LLMQuizGenerator implements domain.QuizGenerator on top of a
// langchaingo model. The backend's payload is treated as untrusted:
// keys are matched permissively, invalid entries are dropped, and only
// a fully empty result is fatal.
type LLMQuizGenerator struct {
	llm     llms.Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMQuizGenerator wraps an existing model. Used directly in tests.
func NewLLMQuizGenerator(llm llms.Model, timeout time.Duration, logger *zap.Logger) domain.QuizGenerator {
	return &LLMQuizGenerator{llm: llm, timeout: timeout, logger: logger}
}

// NewOpenAIQuizGenerator builds a generator backed by the OpenAI chat API.
func NewOpenAIQuizGenerator(cfg config.LLMConfig, logger *zap.Logger) (domain.QuizGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("LLM model name cannot be empty")
	}
	logger.Info("Initializing LLM quiz generator", zap.String("model", cfg.Model))

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewLLMQuizGenerator(llm, cfg.Timeout, logger), nil
}

// Generate builds one structured prompt, invokes the model (with one
// retry on transient failures) and validates the response into a Quiz.
func (g *LLMQuizGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.Quiz, error) {
	prompt := BuildPrompt(req)

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		if isTransient(err) {
			g.logger.Error("LLM call timed out after retry", zap.Error(err))
			return nil, domain.NewTimeoutError("quiz generation", err)
		}
		g.logger.Error("LLM call failed", zap.Error(err))
		return nil, domain.NewInternalError("quiz generation backend call failed", err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		g.logger.Error("Failed to parse LLM response",
			zap.Error(err),
			zap.String("raw_response", truncateForLog(raw)),
		)
		return nil, domain.NewMalformedResponseError(err)
	}
	if len(entries) == 0 {
		return nil, domain.NewEmptyResultError()
	}

	var questions []domain.Question
	dropped := 0
	for _, entry := range entries {
		question, ok := buildQuestion(entry)
		if !ok {
			dropped++
			continue
		}
		if err := question.Validate(); err != nil {
			g.logger.Warn("Dropping invalid question entry",
				zap.String("type", string(question.Type)),
				zap.Error(err),
			)
			dropped++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) == 0 {
		return nil, domain.NewNoValidQuestionsError(dropped)
	}

	// More questions than requested: truncate to the requested amount.
	if len(questions) > req.Amount {
		questions = questions[:req.Amount]
	}

	quiz := &domain.Quiz{
		ID:            util.NewULID(),
		Questions:     questions,
		Shortfall:     len(questions) < req.Amount,
		Requested:     req.Amount,
		SourceSummary: summarize(req.SourceText),
		CreatedAt:     time.Now(),
	}

	g.logger.Info("Quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(questions)),
		zap.Int("requested", req.Amount),
		zap.Int("dropped", dropped),
		zap.Bool("shortfall", quiz.Shortfall),
	)
	return quiz, nil
}

// callWithRetry performs the model call with exactly one retry on
// transient network/timeout errors. Validation failures are never
// retried; retrying a bad prompt risks duplicate cost for no gain.
func (g *LLMQuizGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	raw, err := g.call(ctx, prompt)
	if err == nil || !isTransient(err) {
		return raw, err
	}
	g.logger.Warn("Transient LLM error, retrying once", zap.Error(err))
	return g.call(ctx, prompt)
}

func (g *LLMQuizGenerator) call(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return llms.GenerateFromSinglePrompt(callCtx, g.llm, prompt, llms.WithTemperature(0.2))
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "unexpected EOF")
}

func summarize(text string) string {
	const maxSummary = 200
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxSummary {
		return text
	}
	return string(runes[:maxSummary-3]) + "..."
}

func truncateForLog(s string) string {
	runes := []rune(s)
	if len(runes) > 500 {
		return string(runes[:500])
	}
	return s
}
