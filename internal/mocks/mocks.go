package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"settlement-service/internal/courier"
	"settlement-service/internal/domain"
	"settlement-service/internal/infra"
	"settlement-service/internal/payment"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(id uint64) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(userID string) ([]domain.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentTxnRef(txnRef string) (*domain.Order, error) {
	args := m.Called(txnRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(id uint64) (*domain.Address, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ClearCart(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

type MockProductClient struct {
	mock.Mock
}

func (m *MockProductClient) GetProductById(ctx context.Context, productID uint64) (*infra.ProductInfo, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.ProductInfo), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

type MockCourierAdapter struct {
	mock.Mock
	AdapterKey string
}

func (m *MockCourierAdapter) Key() string {
	if m.AdapterKey != "" {
		return m.AdapterKey
	}
	return "tcs"
}

func (m *MockCourierAdapter) Book(ctx context.Context, s courier.Shipment) (*courier.BookingResult, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.BookingResult), args.Error(1)
}

func (m *MockCourierAdapter) Track(ctx context.Context, trackingNumber string) (*courier.TrackingInfo, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.TrackingInfo), args.Error(1)
}

func (m *MockCourierAdapter) Rate(weight float64) float64 {
	args := m.Called(weight)
	return args.Get(0).(float64)
}

type MockPaymentAdapter struct {
	mock.Mock
	AdapterMethod domain.PaymentMethod
}

func (m *MockPaymentAdapter) Method() domain.PaymentMethod {
	return m.AdapterMethod
}

func (m *MockPaymentAdapter) Initiate(ctx context.Context, req payment.Request) (*payment.Initiation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Initiation), args.Error(1)
}

func (m *MockPaymentAdapter) Verify(payload map[string]string) (*payment.VerificationResult, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.VerificationResult), args.Error(1)
}
