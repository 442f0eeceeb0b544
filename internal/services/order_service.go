package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"settlement-service/internal/domain"
	"settlement-service/internal/infra"
	rabbit "settlement-service/internal/infra/rabbitmq"
	"settlement-service/internal/repository"
)

// ShippingFee is the flat fee added to every order total.
const ShippingFee = 250.0

type CreateOrderItem struct {
	ProductID uint64
	Quantity  int
}

type CreateOrderInput struct {
	UserID        string
	Email         string
	Phone         string
	AddressID     uint64
	Items         []CreateOrderItem
	CourierName   string
	PaymentMethod domain.PaymentMethod
}

// OrderService runs the settlement flow: server-side pricing, optional
// courier booking, a single persist, cart clearing and a fire-and-forget
// order.created event.
type OrderService struct {
	repo        repository.OrderRepository
	addresses   repository.AddressRepository
	carts       repository.CartRepository
	prodClient  infra.ProductClientInterface
	publisher   rabbit.PublisherInterface
	courier     *CourierService
	redisClient *redis.Client
}

func NewOrderService(
	repo repository.OrderRepository,
	addresses repository.AddressRepository,
	carts repository.CartRepository,
	prodClient infra.ProductClientInterface,
	publisher rabbit.PublisherInterface,
	courierSvc *CourierService,
) *OrderService {
	return &OrderService{
		repo:       repo,
		addresses:  addresses,
		carts:      carts,
		prodClient: prodClient,
		publisher:  publisher,
		courier:    courierSvc,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// CreateOrder executes the settlement state machine. The total is computed
// once from authoritative product prices; client input contributes only item
// identity and quantity. COD orders are settled definitionally at creation.
// Courier provider downtime degrades to a synthetic tracking number and
// never fails placement; an unknown destination city rejects it.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.AddressID == 0 {
		return nil, &domain.ValidationError{Field: "address", Reason: "required"}
	}
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "order must contain at least one item"}
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentCOD
	}
	if !in.PaymentMethod.Valid() {
		return nil, &domain.ValidationError{Field: "paymentMethod", Reason: "unsupported payment method"}
	}

	addr, err := s.addresses.FindByID(in.AddressID)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, domain.ErrAddressNotFound
	}
	if addr.UserID != in.UserID {
		return nil, domain.ErrUnauthorized
	}

	amount := decimal.Zero
	orderItems := make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, &domain.ValidationError{Field: "items", Reason: "quantity must be at least 1"}
		}
		prod, err := s.getProductWithCache(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if prod == nil {
			return nil, &domain.ValidationError{Field: "items", Reason: fmt.Sprintf("product %d not found", item.ProductID)}
		}

		unit := prod.UnitPrice()
		amount = amount.Add(decimal.NewFromFloat(unit).Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      prod.Name,
			UnitPrice: unit,
			Quantity:  item.Quantity,
		})
	}
	amount = amount.Add(decimal.NewFromFloat(ShippingFee))

	paymentStatus := domain.PaymentPending
	if in.PaymentMethod == domain.PaymentCOD {
		paymentStatus = domain.PaymentCompleted
	}

	order := &domain.Order{
		UserID:        in.UserID,
		Email:         in.Email,
		Phone:         in.Phone,
		Items:         orderItems,
		Amount:        amount.InexactFloat64(),
		AddressID:     in.AddressID,
		Status:        domain.StatusOrderPlaced,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: paymentStatus,
	}

	if in.CourierName != "" {
		if _, err := s.courier.BookForOrder(ctx, order, addr, in.CourierName); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(order); err != nil {
		return nil, err
	}

	if err := s.carts.ClearCart(in.UserID); err != nil {
		// The order is already the authoritative record; a stale cart is a
		// cosmetic problem, not a placement failure.
		log.Printf("failed to clear cart for user %s: %v", in.UserID, err)
	}

	go s.publishOrderCreatedEvent(context.Background(), order)

	return order, nil
}

func (s *OrderService) getProductWithCache(ctx context.Context, productID uint64) (*infra.ProductInfo, error) {
	cacheKey := fmt.Sprintf("product:%d", productID)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var prod infra.ProductInfo
			if err := json.Unmarshal([]byte(cached), &prod); err == nil {
				return &prod, nil
			}
		}
	}

	prod, err := s.prodClient.GetProductById(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil && prod != nil {
		if data, err := json.Marshal(prod); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, time.Minute)
		}
	}

	return prod, nil
}

// publishOrderCreatedEvent is fire-and-forget: the notification worker
// failing or the broker being down never fails order placement.
func (s *OrderService) publishOrderCreatedEvent(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Amount:        order.Amount,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		CourierName:   order.CourierName,
		Items:         order.Items,
		CreatedAt:     order.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("failed to publish order.created for order %d: %v", order.ID, err)
	}
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) GetOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.FindByUserID(userID)
}
