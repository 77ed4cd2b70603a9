package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flowershop/internal/models"
	"flowershop/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderCreatedEvent is the routing key published for every new order.
const OrderCreatedEvent = "order.created"

var validStatuses = map[string]bool{
	models.OrderPending:    true,
	models.OrderProcessing: true,
	models.OrderShipped:    true,
	models.OrderDelivered:  true,
	models.OrderCancelled:  true,
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
	log         *zap.Logger
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
		log:         log,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return order, err
}

// CreateOrder prices the requested items from the catalog and stores the order.
func (s *OrderService) CreateOrder(ctx context.Context, req models.Order) (*models.Order, error) {
	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[uint]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductID)
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		total += price * float64(item.Quantity)
	}

	now := time.Now()
	order := &models.Order{
		ID:           uuid.New().String(),
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Note:         req.Note,
		TotalPrice:   total,
		Status:       models.OrderPending,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishCreated(order)
	return order, nil
}

func (s *OrderService) publishCreated(order *models.Order) {
	if s.events == nil {
		s.log.Debug("event publisher not configured, skipping order event", zap.String("order_id", order.ID))
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderID":      order.ID,
		"customerName": order.CustomerName,
		"status":       order.Status,
		"total":        order.TotalPrice,
		"items":        len(order.Items),
	})
	if err != nil {
		s.log.Warn("failed to encode order event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if err := s.events.Publish(OrderCreatedEvent, body); err != nil {
		s.log.Warn("failed to publish order created event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	err := s.orderRepo.UpdateStatus(id, status)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}
