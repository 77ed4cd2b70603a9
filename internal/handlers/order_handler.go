package handlers

import (
	"errors"

	"flowershop/internal/apperrors"
	"flowershop/internal/models"
	"flowershop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log *zap.Logger) *OrderHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the order routes. Placing an order is public,
// everything else requires admin.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", admin, h.HandleGetOrders)
	orderRoutes.Get("/:id", admin, h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", admin, h.HandleUpdateOrderStatus)
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		return apperrors.Internal("Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(order)
}

// HandleCreateOrder places a new order priced from the catalog.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var orderRequest models.Order
	if err := c.BodyParser(&orderRequest); err != nil {
		return apperrors.BadRequest("Invalid request body", err)
	}
	if err := h.validate.Struct(orderRequest); err != nil {
		return validationError(c, err)
	}

	createdOrder, err := h.service.CreateOrder(c.UserContext(), orderRequest)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return apperrors.BadRequest("Order contains an unknown product", err)
		}
		return apperrors.Internal("Could not create order", err)
	}

	h.log.Info("order created", zap.String("order_id", createdOrder.ID), zap.Float64("total", createdOrder.TotalPrice))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order placed successfully",
		"order_id": createdOrder.ID,
	})
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return apperrors.BadRequest("Invalid request body for status update", err)
	}
	if err := h.validate.Struct(updateData); err != nil {
		return validationError(c, err)
	}

	if err := h.service.UpdateOrderStatus(orderID, updateData.Status); err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"id":      orderID,
		"status":  updateData.Status,
	})
}
