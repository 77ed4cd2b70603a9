// Package apperrors carries HTTP status codes alongside errors and renders
// them as JSON.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error is an application error with the HTTP status it maps to.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// BadRequest is a 400 with message.
func BadRequest(message string, err error) *Error {
	return New(fiber.StatusBadRequest, message, err)
}

// NotFound is a 404 with message.
func NotFound(message string, err error) *Error {
	return New(fiber.StatusNotFound, message, err)
}

// Internal is a 500 with message.
func Internal(message string, err error) *Error {
	return New(fiber.StatusInternalServerError, message, err)
}

// Handler is the fiber ErrorHandler. It answers {"message", "error"} with the
// status carried by Error or *fiber.Error, and 500 for anything else.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var appErr *Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code, message = appErr.Code, appErr.Message
		case errors.As(err, &fiberErr):
			code, message = fiberErr.Code, fiberErr.Message
		}

		body := fiber.Map{"message": message}
		if appErr != nil && appErr.Err != nil {
			body["error"] = appErr.Err.Error()
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
		}
		return c.Status(code).JSON(body)
	}
}
