package services

import "errors"

// Service errors. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access denied")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNoFile             = errors.New("no file uploaded")
)

// EventPublisher sends a domain event to the message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}
