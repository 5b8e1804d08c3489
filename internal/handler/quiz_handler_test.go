package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizgram/internal/config"
	"quizgram/internal/domain"
	"quizgram/internal/dto"
	"quizgram/internal/handler"
	"quizgram/internal/middleware"
	"quizgram/internal/service"
	"quizgram/internal/telegram"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Manual Mocks ---

type MockGenerator struct {
	GenerateFunc func(ctx context.Context, req *domain.GenerationRequest) (*domain.Quiz, error)
}

func (m *MockGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.Quiz, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	panic("MockGenerator.GenerateFunc not implemented")
}

type MockStore struct {
	quizzes map[string]*domain.Quiz
}

func NewMockStore() *MockStore {
	return &MockStore{quizzes: make(map[string]*domain.Quiz)}
}

func (m *MockStore) Save(ctx context.Context, quiz *domain.Quiz) error {
	m.quizzes[quiz.ID] = quiz
	return nil
}

func (m *MockStore) Find(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, ok := m.quizzes[id]
	if !ok {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

type MockDispatcher struct {
	DispatchFunc func(ctx context.Context, chatID int64, quiz *domain.Quiz) (int, int, error)
	Calls        int
}

func (m *MockDispatcher) DispatchQuiz(ctx context.Context, chatID int64, quiz *domain.Quiz) (int, int, error) {
	m.Calls++
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, chatID, quiz)
	}
	return len(quiz.Questions), 0, nil
}

type NoopNotifier struct{}

func (NoopNotifier) NotifyAppOpened(userID, userName, page string) {}

func testQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Questions: []domain.Question{
			{
				ID:      "q1",
				Type:    domain.MultipleChoice,
				Prompt:  "What is the powerhouse of the cell?",
				Options: []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi apparatus"},
				Answer:  "Mitochondria",
			},
		},
		Requested: 1,
		CreatedAt: time.Now(),
	}
}

type testEnv struct {
	app        *fiber.App
	store      *MockStore
	dispatcher *MockDispatcher
}

func newTestEnv(t *testing.T, generator domain.QuizGenerator) *testEnv {
	t.Helper()

	store := NewMockStore()
	dispatcher := &MockDispatcher{}
	logger := zap.NewNop()

	uploadCfg := config.UploadConfig{
		Dir:          t.TempDir(),
		MaxFileSize:  1 << 20,
		MaxTextChars: 60000,
	}

	quizService := service.NewQuizService(nil, service.NewRequestBuilder(20, uploadCfg.MaxTextChars), generator, store, logger)
	deliveryService := service.NewDeliveryService(store, dispatcher, logger)

	quizHandler := handler.NewQuizHandler(quizService, uploadCfg)
	telegramHandler := handler.NewTelegramHandler(deliveryService, telegram.NewResolver(logger), NoopNotifier{})

	app := fiber.New(fiber.Config{
		BodyLimit:    int(uploadCfg.MaxFileSize) + 1<<20,
		ErrorHandler: middleware.ErrorHandler,
	})
	api := app.Group("/api")
	api.Post("/quiz/generate", quizHandler.GenerateQuiz)
	api.Get("/quiz/:id", quizHandler.GetQuiz)
	api.Post("/quiz/:id/send", telegramHandler.SendQuiz)
	api.Post("/identity", telegramHandler.ResolveIdentity)
	api.Post("/notify-admin", telegramHandler.NotifyAdmin)

	return &testEnv{app: app, store: store, dispatcher: dispatcher}
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, body io.Reader) middleware.ErrorResponse {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestGenerateQuiz_TextInput(t *testing.T) {
	generator := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req *domain.GenerationRequest) (*domain.Quiz, error) {
			return testQuiz(), nil
		},
	}
	env := newTestEnv(t, generator)

	body, contentType := multipartBody(t, map[string]string{
		"input_method":  "text",
		"text_content":  strings.Repeat("Cells need energy to function. ", 5),
		"question_type": "mcq",
		"amount":        "1",
	}, "", nil)

	req := httptest.NewRequest("POST", "/api/quiz/generate", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quizResp dto.QuizResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quizResp))
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", quizResp.ID)
	require.Len(t, quizResp.Questions, 1)
	assert.Equal(t, "Mitochondria", quizResp.Questions[0].Answer)
}

func TestGenerateQuiz_TextTooShort(t *testing.T) {
	env := newTestEnv(t, &MockGenerator{})

	body, contentType := multipartBody(t, map[string]string{
		"input_method":  "text",
		"text_content":  "too short",
		"question_type": "mcq",
	}, "", nil)

	req := httptest.NewRequest("POST", "/api/quiz/generate", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(domain.ErrInvalidInput), decodeError(t, resp.Body).Code)
}

func TestGenerateQuiz_UnsupportedUpload(t *testing.T) {
	env := newTestEnv(t, &MockGenerator{})

	body, contentType := multipartBody(t, map[string]string{
		"question_type": "mcq",
	}, "notes.txt", []byte("plain text file"))

	req := httptest.NewRequest("POST", "/api/quiz/generate", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(domain.ErrUnsupportedFormat), decodeError(t, resp.Body).Code)
}

func TestGenerateQuiz_FileTooLarge(t *testing.T) {
	// MockGenerator has no GenerateFunc: any extraction or generation
	// attempt on this path would panic the test.
	env := newTestEnv(t, &MockGenerator{})

	oversized := bytes.Repeat([]byte("a"), (1<<20)+1)
	body, contentType := multipartBody(t, map[string]string{
		"question_type": "mcq",
	}, "big.pdf", oversized)

	req := httptest.NewRequest("POST", "/api/quiz/generate", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	errResp := decodeError(t, resp.Body)
	assert.Equal(t, string(domain.ErrFileTooLarge), errResp.Code)
	assert.Contains(t, errResp.Message, "exceeds")
}

func TestGenerateQuiz_MissingFile(t *testing.T) {
	env := newTestEnv(t, &MockGenerator{})

	body, contentType := multipartBody(t, map[string]string{
		"question_type": "mcq",
	}, "", nil)

	req := httptest.NewRequest("POST", "/api/quiz/generate", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerateQuiz_InvalidPageRange(t *testing.T) {
	env := newTestEnv(t, &MockGenerator{})

	body, contentType := multipartBody(t, map[string]string{
		"question_type": "mcq",
		"page_start":    "5",
		"page_end":      "2",
	}, "doc.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest("POST", "/api/quiz/generate", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(domain.ErrInvalidInput), decodeError(t, resp.Body).Code)
}

func TestGenerateQuiz_GenerationFailure(t *testing.T) {
	generator := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req *domain.GenerationRequest) (*domain.Quiz, error) {
			return nil, domain.NewMalformedResponseError(nil)
		},
	}
	env := newTestEnv(t, generator)

	body, contentType := multipartBody(t, map[string]string{
		"input_method":  "text",
		"text_content":  strings.Repeat("Cells need energy to function. ", 5),
		"question_type": "mcq",
	}, "", nil)

	req := httptest.NewRequest("POST", "/api/quiz/generate", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	// Backend detail must not leak to the client.
	errResp := decodeError(t, resp.Body)
	assert.Equal(t, "quiz generation failed, please retry", errResp.Message)
}

func TestGetQuiz(t *testing.T) {
	env := newTestEnv(t, &MockGenerator{})
	quiz := testQuiz()
	require.NoError(t, env.store.Save(context.Background(), quiz))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/quiz/"+quiz.ID, nil)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/quiz/unknown", nil)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, string(domain.ErrQuizNotFound), decodeError(t, resp.Body).Code)
	})
}
