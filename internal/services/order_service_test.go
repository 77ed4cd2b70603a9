package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"flowershop/internal/models"
	"flowershop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func orderRequest() models.Order {
	return models.Order{
		CustomerName: "Trần Bình",
		Phone:        "0909000111",
		Address:      "5 Nguyễn Huệ",
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, productRepo, publisher, nil)

	productRepo.On("GetByIDs", mock.Anything, []uint{1, 2}).Return([]models.Product{
		{ID: 1, Name: "Bó Hồng", Price: 250000},
		{ID: 2, Name: "Giỏ Lan", Price: 500000},
	}, nil).Once()
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("Publish", services.OrderCreatedEvent, mock.MatchedBy(func(body []byte) bool {
		var event map[string]interface{}
		return json.Unmarshal(body, &event) == nil && event["total"] == 1000000.0
	})).Return(nil).Once()

	order, err := service.CreateOrder(context.Background(), orderRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 1000000.0, order.TotalPrice)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 250000.0, order.Items[0].Price)

	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, nil)

	productRepo.On("GetByIDs", mock.Anything, []uint{1, 2}).Return([]models.Product{{ID: 1, Price: 100}}, nil).Once()

	_, err := service.CreateOrder(context.Background(), orderRequest())
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrder_PublishFailureIsNotFatal(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, productRepo, publisher, nil)

	productRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]models.Product{{ID: 1, Price: 1}, {ID: 2, Price: 2}}, nil).Once()
	orderRepo.On("Create", mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.CreateOrder(context.Background(), orderRequest())
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, new(MockProductRepository), nil, nil)

	orderRepo.On("GetByID", "o-1").Return(&models.Order{ID: "o-1"}, nil).Once()
	order, err := service.GetOrderByID("o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.ID)

	orderRepo.On("GetByID", "o-2").Return(nil, notFound("o-2")).Once()
	_, err = service.GetOrderByID("o-2")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, new(MockProductRepository), nil, nil)

	orderRepo.On("UpdateStatus", "o-1", models.OrderShipped).Return(nil).Once()
	assert.NoError(t, service.UpdateOrderStatus("o-1", models.OrderShipped))

	assert.ErrorIs(t, service.UpdateOrderStatus("o-1", "lost"), services.ErrInvalidStatus)

	orderRepo.On("UpdateStatus", "o-9", models.OrderCancelled).Return(notFound("o-9")).Once()
	assert.ErrorIs(t, service.UpdateOrderStatus("o-9", models.OrderCancelled), services.ErrOrderNotFound)
	orderRepo.AssertExpectations(t)
}
