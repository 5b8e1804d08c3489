package service

import (
	"context"
	"unicode/utf8"

	"quizgram/internal/domain"
	"quizgram/internal/ingest"

	"go.uber.org/zap"
)

// minTextInputRunes is the lower bound for directly pasted text; a
// shorter passage cannot yield meaningful questions.
const minTextInputRunes = 50

// QuizService orchestrates the generation pipeline: ingest, build,
// generate, store. Each call is stateless and request-scoped.
type QuizService struct {
	ingestor  *ingest.Ingestor
	builder   *RequestBuilder
	generator domain.QuizGenerator
	store     domain.QuizStore
	logger    *zap.Logger
}

func NewQuizService(
	ingestor *ingest.Ingestor,
	builder *RequestBuilder,
	generator domain.QuizGenerator,
	store domain.QuizStore,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		ingestor:  ingestor,
		builder:   builder,
		generator: generator,
		store:     store,
		logger:    logger,
	}
}

// GenerateFromText runs the pipeline for a directly supplied passage.
func (s *QuizService) GenerateFromText(ctx context.Context, in RawGenerationInput) (*domain.Quiz, error) {
	if utf8.RuneCountInString(in.SourceText) < minTextInputRunes {
		return nil, domain.NewInvalidInputError("text_content", "at least 50 characters of text are required")
	}
	in.PageRange = nil
	return s.generate(ctx, in)
}

// GenerateFromFile extracts text from an uploaded document first. The
// page range is resolved against the document's real page count before
// the request is built, so the builder only ever sees a complete pair.
// The caller owns the uploaded file and removes it on every exit path.
func (s *QuizService) GenerateFromFile(ctx context.Context, path string, in RawGenerationInput) (*domain.Quiz, error) {
	text, totalPages, err := s.ingestor.ExtractText(path, in.PageRange)
	if err != nil {
		return nil, err
	}

	if in.PageRange != nil {
		clamped := in.PageRange.Clamp(totalPages)
		in.PageRange = &clamped
	}
	in.SourceText = text

	s.logger.Info("Document ingested",
		zap.Int("total_pages", totalPages),
		zap.Int("text_len", len(text)),
	)
	return s.generate(ctx, in)
}

func (s *QuizService) generate(ctx context.Context, in RawGenerationInput) (*domain.Quiz, error) {
	req, err := s.builder.Build(in)
	if err != nil {
		// Fail fast: no backend call is made for invalid input.
		return nil, err
	}

	quiz, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, quiz); err != nil {
		// The quiz is complete; losing the stored copy only breaks the
		// later send-to-Telegram step, so log and return it anyway.
		s.logger.Error("Failed to store generated quiz",
			zap.String("quiz_id", quiz.ID),
			zap.Error(err),
		)
	}
	return quiz, nil
}

// GetQuiz loads a previously generated quiz for the web render path.
func (s *QuizService) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	return s.store.Find(ctx, id)
}
