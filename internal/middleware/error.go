package middleware

import (
	"errors"
	"net/http"

	"quizgram/internal/domain"
	"quizgram/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorHandler is the centralized error handler. Domain errors are
// mapped onto the HTTP taxonomy; backend contract violations are
// collapsed into a generic retryable message with the detail logged
// internally, so raw transport or parsing errors never reach the user.
func ErrorHandler(c *fiber.Ctx, err error) error {
	log := logger.Get()

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		statusCode, message := mapDomainError(domainErr)

		log.Error("Domain error occurred",
			zap.String("code", string(domainErr.Code)),
			zap.String("message", domainErr.Message),
			zap.Int("status", statusCode),
			zap.String("path", c.Path()),
			zap.Error(domainErr.Err),
		)

		return c.Status(statusCode).JSON(ErrorResponse{
			Code:    string(domainErr.Code),
			Message: message,
			Status:  statusCode,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		log.Warn("Fiber error occurred",
			zap.Int("code", fiberErr.Code),
			zap.String("message", fiberErr.Message),
		)
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Code:    "HTTP_ERROR",
			Message: fiberErr.Message,
			Status:  fiberErr.Code,
		})
	}

	log.Error("Unknown error occurred",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Code:    string(domain.ErrInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	})
}

// mapDomainError returns the HTTP status and the client-facing message
// for a domain error.
func mapDomainError(err *domain.DomainError) (int, string) {
	switch err.Code {
	case domain.ErrInvalidInput, domain.ErrUnsupportedFormat, domain.ErrEmptyDocument:
		return http.StatusBadRequest, err.Message
	case domain.ErrFileTooLarge:
		return http.StatusRequestEntityTooLarge, err.Message
	case domain.ErrQuizNotFound:
		return http.StatusNotFound, err.Message
	case domain.ErrMissingIdentity:
		return http.StatusUnauthorized, err.Message
	case domain.ErrMalformedResponse, domain.ErrEmptyResult, domain.ErrNoValidQuestions:
		// Backend contract violations: detail stays in the logs.
		return http.StatusBadGateway, "quiz generation failed, please retry"
	case domain.ErrTimeout:
		return http.StatusGatewayTimeout, err.Message
	case domain.ErrDeliveryFailed:
		return http.StatusBadGateway, err.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
