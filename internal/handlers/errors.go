package handlers

import (
	"errors"

	"flowershop/internal/apperrors"
	"flowershop/internal/importer"
	"flowershop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps service sentinels to HTTP errors. Anything unknown is a 500.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		return apperrors.NotFound("Category not found", err)
	case errors.Is(err, services.ErrProductNotFound):
		return apperrors.NotFound("Product not found", err)
	case errors.Is(err, services.ErrOrderNotFound):
		return apperrors.NotFound("Order not found", err)
	case errors.Is(err, services.ErrInvalidStatus):
		return apperrors.BadRequest("Invalid order status", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		return apperrors.New(fiber.StatusUnauthorized, "Authentication failed", err)
	case errors.Is(err, services.ErrForbidden):
		return apperrors.New(fiber.StatusForbidden, "Admin access required", err)
	case errors.Is(err, services.ErrUsernameTaken):
		return apperrors.New(fiber.StatusConflict, "Registration failed", err)
	case errors.Is(err, services.ErrNoFile):
		return apperrors.BadRequest("No file uploaded", err)
	case errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, importer.ErrInvalidHeader),
		errors.Is(err, importer.ErrUnreadableFile):
		return apperrors.BadRequest("Invalid import file", err)
	case errors.Is(err, importer.ErrImportFailed):
		return apperrors.Internal("Import failed, no products were saved", err)
	}
	return apperrors.Internal("Internal server error", err)
}
