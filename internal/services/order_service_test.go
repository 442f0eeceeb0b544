package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"settlement-service/internal/courier"
	"settlement-service/internal/domain"
	"settlement-service/internal/mocks"
)

type orderServiceFixture struct {
	repo      *mocks.MockOrderRepository
	addresses *mocks.MockAddressRepository
	carts     *mocks.MockCartRepository
	products  *mocks.MockProductClient
	publisher *mocks.MockPublisher
	courierAd *mocks.MockCourierAdapter
	svc       *OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		repo:      new(mocks.MockOrderRepository),
		addresses: new(mocks.MockAddressRepository),
		carts:     new(mocks.MockCartRepository),
		products:  new(mocks.MockProductClient),
		publisher: new(mocks.MockPublisher),
		courierAd: &mocks.MockCourierAdapter{AdapterKey: "mnp"},
	}
	courierSvc := NewCourierService(f.repo, f.addresses, f.courierAd)
	f.svc = NewOrderService(f.repo, f.addresses, f.carts, f.products, f.publisher, courierSvc)
	return f
}

func codInput() CreateOrderInput {
	return CreateOrderInput{
		UserID:        "user1",
		Email:         "u@example.com",
		Phone:         "03001234567",
		AddressID:     1,
		Items:         []CreateOrderItem{{ProductID: 11, Quantity: 2}},
		CourierName:   "mnp",
		PaymentMethod: domain.PaymentCOD,
	}
}

func TestCreateOrderCODSettlesImmediately(t *testing.T) {
	f := newOrderServiceFixture()

	f.addresses.On("FindByID", uint64(1)).Return(testAddress("user1"), nil)
	f.products.On("GetProductById", mock.Anything, uint64(11)).Return(testProduct(11, 1000, 800), nil)
	f.courierAd.On("Book", mock.Anything, mock.Anything).Return(&courier.BookingResult{
		Success:         true,
		TrackingNumber:  "MP987654",
		CourierResponse: map[string]any{"tracking_number": "MP987654"},
	}, nil)
	f.repo.On("Save", mock.Anything).Return(nil)
	f.carts.On("ClearCart", "user1").Return(nil)
	f.publisher.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil)

	order, err := f.svc.CreateOrder(context.Background(), codInput())
	require.NoError(t, err)

	assert.InDelta(t, 1850.0, order.Amount, 0.001, "2 x offer price 800 + flat 250 shipping")
	assert.Equal(t, domain.StatusOrderPlaced, order.Status)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus, "COD settles at creation")
	assert.Equal(t, "mnp", order.CourierName)
	assert.Equal(t, "MP987654", order.CourierTrackingNumber)
	assert.Equal(t, "Booked", order.CourierStatus)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 800.0, order.Items[0].UnitPrice, "offer price beats list price")
	assert.Equal(t, "Headphones", order.Items[0].Name)

	f.carts.AssertCalled(t, "ClearCart", "user1")

	time.Sleep(50 * time.Millisecond)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, "order.created", mock.Anything)
}

func TestCreateOrderOnlinePaymentStaysPending(t *testing.T) {
	f := newOrderServiceFixture()

	f.addresses.On("FindByID", uint64(1)).Return(testAddress("user1"), nil)
	f.products.On("GetProductById", mock.Anything, uint64(11)).Return(testProduct(11, 1000, 0), nil)
	f.repo.On("Save", mock.Anything).Return(nil)
	f.carts.On("ClearCart", "user1").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	in := codInput()
	in.CourierName = ""
	in.PaymentMethod = domain.PaymentJazzCash

	order, err := f.svc.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.InDelta(t, 2250.0, order.Amount, 0.001, "no offer price, list price applies")
	assert.Empty(t, order.CourierName, "no courier requested at placement")
	f.courierAd.AssertNotCalled(t, "Book", mock.Anything, mock.Anything)
}

func TestCreateOrderIgnoresClientPrices(t *testing.T) {
	// The input type carries no price field at all; the total is derived from
	// the product service alone. A forged quantity is the only lever left and
	// it scales the authoritative price.
	f := newOrderServiceFixture()

	f.addresses.On("FindByID", uint64(1)).Return(testAddress("user1"), nil)
	f.products.On("GetProductById", mock.Anything, uint64(11)).Return(testProduct(11, 500, 0), nil)
	f.repo.On("Save", mock.Anything).Return(nil)
	f.carts.On("ClearCart", "user1").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	in := codInput()
	in.CourierName = ""
	in.Items = []CreateOrderItem{{ProductID: 11, Quantity: 3}}

	order, err := f.svc.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	assert.InDelta(t, 1750.0, order.Amount, 0.001)
}

func TestCreateOrderCourierDegradation(t *testing.T) {
	f := newOrderServiceFixture()

	f.addresses.On("FindByID", uint64(1)).Return(testAddress("user1"), nil)
	f.products.On("GetProductById", mock.Anything, uint64(11)).Return(testProduct(11, 1000, 800), nil)
	f.courierAd.On("Book", mock.Anything, mock.Anything).Return(&courier.BookingResult{
		Success:        false,
		TrackingNumber: "MP-1700000000000-42",
		Err:            "booking failed: connection refused",
	}, nil)
	f.repo.On("Save", mock.Anything).Return(nil)
	f.carts.On("ClearCart", "user1").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	order, err := f.svc.CreateOrder(context.Background(), codInput())
	require.NoError(t, err, "provider downtime must not fail placement")
	assert.Equal(t, "MP-1700000000000-42", order.CourierTrackingNumber)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(order.CourierMeta, &meta))
	assert.Equal(t, true, meta["degraded"])
	assert.NotEmpty(t, meta["error"])
}

func TestCreateOrderUnknownCityRejects(t *testing.T) {
	f := newOrderServiceFixture()

	f.addresses.On("FindByID", uint64(1)).Return(testAddress("user1"), nil)
	f.products.On("GetProductById", mock.Anything, uint64(11)).Return(testProduct(11, 1000, 800), nil)
	f.courierAd.On("Book", mock.Anything, mock.Anything).Return(nil, &courier.UnknownCityError{City: "Atlantis"})

	_, err := f.svc.CreateOrder(context.Background(), codInput())

	var cityErr *courier.UnknownCityError
	assert.ErrorAs(t, err, &cityErr, "unknown destination is a data problem, not downtime")
	f.repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"missing address", func(in *CreateOrderInput) { in.AddressID = 0 }},
		{"empty items", func(in *CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items = []CreateOrderItem{{ProductID: 11, Quantity: 0}} }},
		{"unsupported payment method", func(in *CreateOrderInput) { in.PaymentMethod = "stripe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderServiceFixture()
			f.addresses.On("FindByID", mock.Anything).Return(testAddress("user1"), nil).Maybe()
			f.products.On("GetProductById", mock.Anything, mock.Anything).Return(testProduct(11, 1000, 800), nil).Maybe()

			in := codInput()
			tt.mutate(&in)

			_, err := f.svc.CreateOrder(context.Background(), in)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
			f.repo.AssertNotCalled(t, "Save", mock.Anything)
		})
	}
}

func TestCreateOrderDefaultsToCOD(t *testing.T) {
	f := newOrderServiceFixture()

	f.addresses.On("FindByID", uint64(1)).Return(testAddress("user1"), nil)
	f.products.On("GetProductById", mock.Anything, uint64(11)).Return(testProduct(11, 1000, 800), nil)
	f.repo.On("Save", mock.Anything).Return(nil)
	f.carts.On("ClearCart", "user1").Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	in := codInput()
	in.CourierName = ""
	in.PaymentMethod = ""

	order, err := f.svc.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCOD, order.PaymentMethod)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus)
}

func TestCreateOrderAddressOwnership(t *testing.T) {
	f := newOrderServiceFixture()
	f.addresses.On("FindByID", uint64(1)).Return(testAddress("someone-else"), nil)

	_, err := f.svc.CreateOrder(context.Background(), codInput())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	f.repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestCreateOrderAddressNotFound(t *testing.T) {
	f := newOrderServiceFixture()
	f.addresses.On("FindByID", uint64(1)).Return(nil, nil)

	_, err := f.svc.CreateOrder(context.Background(), codInput())
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestCreateOrderSurvivesCartClearFailure(t *testing.T) {
	f := newOrderServiceFixture()

	f.addresses.On("FindByID", uint64(1)).Return(testAddress("user1"), nil)
	f.products.On("GetProductById", mock.Anything, uint64(11)).Return(testProduct(11, 1000, 800), nil)
	f.repo.On("Save", mock.Anything).Return(nil)
	f.carts.On("ClearCart", "user1").Return(assert.AnError)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	in := codInput()
	in.CourierName = ""

	order, err := f.svc.CreateOrder(context.Background(), in)
	require.NoError(t, err, "a stale cart must not fail a placed order")
	assert.NotNil(t, order)
}

func TestGetOrderByID(t *testing.T) {
	f := newOrderServiceFixture()
	f.repo.On("FindByID", uint64(42)).Return(testOrder(42, "user1"), nil)

	order, err := f.svc.GetOrderByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), order.ID)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	f := newOrderServiceFixture()
	f.repo.On("FindByID", uint64(42)).Return(nil, nil)

	_, err := f.svc.GetOrderByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
