package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/report"
	"github.com/blackwell-systems/devstreaks/internal/series"
)

// SuccessResponse wraps a successful payload.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func success(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{Success: true, Data: data})
}

func failure(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, platform.ErrUnknownPlatform),
		errors.Is(err, platform.ErrEmptyUsername):
		return fiber.StatusBadRequest
	case errors.Is(err, platform.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, platform.ErrMissingToken),
		errors.Is(err, report.ErrReposUnsupported):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, series.ErrInvalidWindow),
		errors.Is(err, series.ErrMalformedInput):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadGateway
	}
}

// handleError renders errors returned from handlers, including fiber's own
// routing errors, in the standard envelope.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return failure(c, fe.Code, err)
	}
	return failure(c, statusFor(err), err)
}
