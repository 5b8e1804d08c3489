package handler

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"quizgram/internal/config"
	"quizgram/internal/domain"
	"quizgram/internal/dto"
	"quizgram/internal/logger"
	"quizgram/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultAmount = 5

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// QuizHandler handles quiz generation and retrieval requests.
type QuizHandler struct {
	quizService *service.QuizService
	uploadCfg   config.UploadConfig
}

func NewQuizHandler(quizService *service.QuizService, uploadCfg config.UploadConfig) *QuizHandler {
	return &QuizHandler{quizService: quizService, uploadCfg: uploadCfg}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from text or an uploaded document
// @Description Accepts raw text or a multipart PDF/Word upload plus generation parameters and returns the generated quiz
// @Tags quiz
// @Accept mpfd
// @Produce json
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 413 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	in, err := h.parseGenerationInput(c)
	if err != nil {
		return err
	}

	var quiz *domain.Quiz
	if c.FormValue("input_method", "file") == "text" {
		in.SourceText = c.FormValue("text_content")
		quiz, err = h.quizService.GenerateFromText(c.UserContext(), in)
	} else {
		quiz, err = h.generateFromUpload(c, in)
	}
	if err != nil {
		return err
	}

	return c.JSON(dto.FromQuiz(quiz))
}

func (h *QuizHandler) generateFromUpload(c *fiber.Ctx, in service.RawGenerationInput) (*domain.Quiz, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, domain.NewInvalidInputError("file", "a PDF or Word file is required")
	}

	// Size and type are rejected before any bytes are written or
	// extracted.
	if fileHeader.Size > h.uploadCfg.MaxFileSize {
		return nil, domain.NewFileTooLargeError(fileHeader.Size, h.uploadCfg.MaxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return nil, domain.NewUnsupportedFormatError(fileHeader.Filename, nil)
	}

	if err := os.MkdirAll(h.uploadCfg.Dir, 0o755); err != nil {
		return nil, domain.NewInternalError("failed to prepare upload directory", err)
	}

	// Per-request ephemeral storage, removed on every exit path.
	path := filepath.Join(h.uploadCfg.Dir, uuid.NewString()+ext)
	if err := c.SaveFile(fileHeader, path); err != nil {
		return nil, domain.NewInternalError("failed to store uploaded file", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			logger.Get().Warn("Failed to remove uploaded file",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}()

	return h.quizService.GenerateFromFile(c.UserContext(), path, in)
}

func (h *QuizHandler) parseGenerationInput(c *fiber.Ctx) (service.RawGenerationInput, error) {
	in := service.RawGenerationInput{
		Difficulty: c.FormValue("difficulty"),
		Amount:     defaultAmount,
	}

	if raw := strings.TrimSpace(c.FormValue("amount")); raw != "" {
		amount, err := strconv.Atoi(raw)
		if err != nil {
			return in, domain.NewInvalidInputError("amount", "must be an integer")
		}
		in.Amount = amount
	}

	if form, err := c.MultipartForm(); err == nil {
		in.QuestionTypes = form.Value["question_type"]
	}

	pageRange, err := parsePageRange(c.FormValue("page_start"), c.FormValue("page_end"))
	if err != nil {
		return in, err
	}
	in.PageRange = pageRange

	return in, nil
}

// parsePageRange turns the optional form fields into a raw page range.
// Ill-formed ranges fail here, before any extraction happens; bounds
// beyond the document's page count are left for clamping.
func parsePageRange(startRaw, endRaw string) (*domain.PageRange, error) {
	parse := func(field, raw string) (int, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, domain.NewInvalidInputError(field, "must be a positive integer")
		}
		return n, nil
	}

	start, err := parse("page_start", startRaw)
	if err != nil {
		return nil, err
	}
	end, err := parse("page_end", endRaw)
	if err != nil {
		return nil, err
	}

	if start == 0 && end == 0 {
		return nil, nil
	}
	if start > 0 && end > 0 && start > end {
		return nil, domain.NewInvalidInputError("page_range", "start must not exceed end")
	}
	if start == 0 {
		start = 1
	}
	return &domain.PageRange{Start: start, End: end}, nil
}

// GetQuiz godoc
// @Summary Get a generated quiz
// @Description Returns a previously generated quiz by its id
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizService.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromQuiz(quiz))
}
