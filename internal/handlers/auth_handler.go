package handlers

import (
	"flowershop/internal/apperrors"
	"flowershop/internal/models"
	"flowershop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes. Creating further
// admins requires an admin token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	router.Post("/login", h.HandleLogin)
	router.Post("/auth/register", admin, h.HandleRegister)
}

// RegisterRequest represents the request body for creating an admin.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister creates another admin account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	user := models.User{Username: req.Username, Password: req.Password, Role: models.RoleAdmin}
	if err := h.authService.RegisterUser(&user); err != nil {
		return serviceError(err)
	}

	h.log.Info("admin registered", zap.String("username", user.Username))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates an admin and issues a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		h.log.Info("login rejected", zap.String("username", req.Username), zap.Error(err))
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}
