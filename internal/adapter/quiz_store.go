package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"quizgram/internal/cache"
	"quizgram/internal/domain"
	"time"
)

// CacheQuizStore keeps generated quizzes in the cache between the
// generate and deliver steps. Entries expire after the configured TTL;
// an expired quiz simply has to be regenerated.
type CacheQuizStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewCacheQuizStore creates a quiz store on top of a domain.Cache.
func NewCacheQuizStore(c domain.Cache, ttl time.Duration) domain.QuizStore {
	return &CacheQuizStore{cache: c, ttl: ttl}
}

// Save serializes the quiz and writes it under its id.
func (s *CacheQuizStore) Save(ctx context.Context, quiz *domain.Quiz) error {
	payload, err := json.Marshal(quiz)
	if err != nil {
		return domain.NewInternalError("failed to serialize quiz", err)
	}
	return s.cache.Set(ctx, cache.QuizKey(quiz.ID), string(payload), s.ttl)
}

// Find loads a quiz by id, translating a cache miss to QUIZ_NOT_FOUND.
func (s *CacheQuizStore) Find(ctx context.Context, id string) (*domain.Quiz, error) {
	payload, err := s.cache.Get(ctx, cache.QuizKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, domain.NewInternalError("failed to load quiz", err)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(payload), &quiz); err != nil {
		return nil, domain.NewInternalError("failed to deserialize quiz", err)
	}
	return &quiz, nil
}
