package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizgram/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	quizzes map[string]*domain.Quiz
	saveErr error
	saved   []*domain.Quiz
}

func newFakeStore() *fakeStore {
	return &fakeStore{quizzes: make(map[string]*domain.Quiz)}
}

func (s *fakeStore) Save(ctx context.Context, quiz *domain.Quiz) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, quiz)
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *fakeStore) Find(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

type fakeDispatcher struct {
	sent    int
	skipped int
	err     error
	calls   int
}

func (d *fakeDispatcher) DispatchQuiz(ctx context.Context, chatID int64, quiz *domain.Quiz) (int, int, error) {
	d.calls++
	return d.sent, d.skipped, d.err
}

func sampleQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Questions: []domain.Question{
			{
				ID:      "q1",
				Type:    domain.MultipleChoice,
				Prompt:  "What is the powerhouse of the cell?",
				Options: []string{"Nucleus", "Mitochondria"},
				Answer:  "Mitochondria",
			},
		},
		Requested: 1,
		CreatedAt: time.Now(),
	}
}

func TestDeliveryService_Deliver(t *testing.T) {
	t.Run("web target is a plain hand-off", func(t *testing.T) {
		dispatcher := &fakeDispatcher{}
		svc := NewDeliveryService(newFakeStore(), dispatcher, zap.NewNop())

		result, err := svc.Deliver(context.Background(), sampleQuiz(), domain.TargetWeb, domain.TelegramUserInfo{})
		require.NoError(t, err)
		assert.Equal(t, domain.TargetWeb, result.Target)
		assert.Equal(t, 1, result.Sent)
		assert.Zero(t, dispatcher.calls)
	})

	t.Run("telegram without identity makes no transport call", func(t *testing.T) {
		dispatcher := &fakeDispatcher{}
		svc := NewDeliveryService(newFakeStore(), dispatcher, zap.NewNop())

		_, err := svc.Deliver(context.Background(), sampleQuiz(), domain.TargetTelegram, domain.TelegramUserInfo{})
		assert.True(t, domain.IsCode(err, domain.ErrMissingIdentity))
		assert.Zero(t, dispatcher.calls)
	})

	t.Run("telegram with non-numeric id is rejected", func(t *testing.T) {
		dispatcher := &fakeDispatcher{}
		svc := NewDeliveryService(newFakeStore(), dispatcher, zap.NewNop())

		_, err := svc.Deliver(context.Background(), sampleQuiz(), domain.TargetTelegram, domain.TelegramUserInfo{ID: "not-a-number"})
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
		assert.Zero(t, dispatcher.calls)
	})

	t.Run("telegram delivery success", func(t *testing.T) {
		dispatcher := &fakeDispatcher{sent: 1}
		svc := NewDeliveryService(newFakeStore(), dispatcher, zap.NewNop())

		result, err := svc.Deliver(context.Background(), sampleQuiz(), domain.TargetTelegram, domain.TelegramUserInfo{ID: "42"})
		require.NoError(t, err)
		assert.Equal(t, domain.TargetTelegram, result.Target)
		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, 1, dispatcher.calls)
	})

	t.Run("transport failure maps to delivery failed", func(t *testing.T) {
		dispatcher := &fakeDispatcher{err: errors.New("telegram: Forbidden: bot was blocked by the user")}
		svc := NewDeliveryService(newFakeStore(), dispatcher, zap.NewNop())

		_, err := svc.Deliver(context.Background(), sampleQuiz(), domain.TargetTelegram, domain.TelegramUserInfo{ID: "42"})
		assert.True(t, domain.IsCode(err, domain.ErrDeliveryFailed))
	})

	t.Run("deadline exceeded maps to timeout", func(t *testing.T) {
		dispatcher := &fakeDispatcher{err: context.DeadlineExceeded}
		svc := NewDeliveryService(newFakeStore(), dispatcher, zap.NewNop())

		_, err := svc.Deliver(context.Background(), sampleQuiz(), domain.TargetTelegram, domain.TelegramUserInfo{ID: "42"})
		assert.True(t, domain.IsCode(err, domain.ErrTimeout))
	})

	t.Run("unknown target rejected", func(t *testing.T) {
		svc := NewDeliveryService(newFakeStore(), &fakeDispatcher{}, zap.NewNop())
		_, err := svc.Deliver(context.Background(), sampleQuiz(), domain.DeliveryTarget("email"), domain.TelegramUserInfo{ID: "42"})
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
	})
}

func TestDeliveryService_DeliverByID(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		svc := NewDeliveryService(newFakeStore(), &fakeDispatcher{}, zap.NewNop())
		_, err := svc.DeliverByID(context.Background(), "missing", domain.TargetTelegram, domain.TelegramUserInfo{ID: "42"})
		assert.True(t, domain.IsCode(err, domain.ErrQuizNotFound))
	})

	t.Run("stored quiz delivered", func(t *testing.T) {
		store := newFakeStore()
		quiz := sampleQuiz()
		require.NoError(t, store.Save(context.Background(), quiz))

		dispatcher := &fakeDispatcher{sent: 1}
		svc := NewDeliveryService(store, dispatcher, zap.NewNop())

		result, err := svc.DeliverByID(context.Background(), quiz.ID, domain.TargetTelegram, domain.TelegramUserInfo{ID: "42"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
	})
}
