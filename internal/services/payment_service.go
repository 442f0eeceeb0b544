package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"settlement-service/internal/domain"
	"settlement-service/internal/payment"
	"settlement-service/internal/repository"
)

// PaymentService orchestrates payment initiation and asynchronous callback
// verification across the registered gateway adapters.
type PaymentService struct {
	repo     repository.OrderRepository
	adapters map[domain.PaymentMethod]payment.Adapter
}

func NewPaymentService(repo repository.OrderRepository, adapters ...payment.Adapter) *PaymentService {
	m := make(map[domain.PaymentMethod]payment.Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Method()] = a
	}
	return &PaymentService{repo: repo, adapters: m}
}

// InitiatePayment dispatches to the matching adapter and persists the
// payment initiation fields only on adapter success. On failure the order
// record is left untouched; no partial state is committed.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID string, orderID uint64, method domain.PaymentMethod) (*payment.Initiation, error) {
	order, err := s.repo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	ad, ok := s.adapters[method]
	if !ok {
		return nil, domain.ErrUnknownPaymentMethod
	}

	result, err := ad.Initiate(ctx, payment.Request{
		OrderID: order.ID,
		Amount:  order.Amount,
		Email:   order.Email,
		Phone:   order.Phone,
	})
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("payment initiation failed: %s", result.Error)
	}

	order.PaymentMethod = method
	order.PaymentStatus = domain.PaymentPending
	order.PaymentTxnRef = result.ProviderRef
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	return result, nil
}

// CallbackOutcome tells the callback route where to redirect the browser.
type CallbackOutcome struct {
	OrderID   uint64
	Succeeded bool
}

// VerifyCallback classifies the inbound payload, verifies it with the
// matching adapter and maps the result onto a terminal payment state.
// Exactly one persist happens per call; repeating the same payload re-derives
// the same result and rewrites the same state, so the operation is
// idempotent. A payload matching no known provider fails closed and leaves
// the order untouched.
func (s *PaymentService) VerifyCallback(ctx context.Context, payload map[string]string, providerHint string) (*CallbackOutcome, error) {
	method, err := payment.Classify(payload, providerHint)
	if err != nil {
		return nil, err
	}

	ad := s.adapters[method]
	if ad == nil {
		return nil, domain.ErrUnknownPaymentMethod
	}

	order, err := s.resolveOrder(method, payload)
	if err != nil {
		return nil, err
	}

	result, verr := ad.Verify(payload)
	if verr != nil {
		// Malformed but classified payload: fail the payment closed rather
		// than leaving the outcome to a retry with forged fields.
		order.PaymentStatus = domain.PaymentFailed
		order.PaymentError = verr.Error()
		if err := s.repo.Update(order); err != nil {
			return nil, err
		}
		return &CallbackOutcome{OrderID: order.ID, Succeeded: false}, nil
	}

	if result.IsValid && result.Status == payment.StatusSuccess {
		order.PaymentStatus = domain.PaymentCompleted
		order.PaymentTxnID = result.TransactionID
		order.Status = domain.StatusPaymentConfirmed
	} else {
		if !result.IsValid {
			log.Printf("payment callback signature mismatch for order %d (%s)", order.ID, method)
		}
		order.PaymentStatus = domain.PaymentFailed
		msg := result.ResponseMessage
		if msg == "" {
			msg = "Payment verification failed"
		}
		order.PaymentError = msg
	}

	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	return &CallbackOutcome{OrderID: order.ID, Succeeded: order.PaymentStatus == domain.PaymentCompleted}, nil
}

// resolveOrder locates the order a callback refers to. PayPro and JazzCash
// carry the order id directly; EasyPaisa callbacks only echo the provider
// reference, so those orders are found by their stored txn ref.
func (s *PaymentService) resolveOrder(method domain.PaymentMethod, payload map[string]string) (*domain.Order, error) {
	var (
		order *domain.Order
		err   error
	)
	switch method {
	case domain.PaymentPayPro:
		order, err = s.findByIDField(payload["OrderNumber"])
	case domain.PaymentJazzCash:
		order, err = s.findByIDField(payload["pp_BillReference"])
	case domain.PaymentEasyPaisa:
		ref := payload["orderRefNum"]
		if ref == "" {
			return nil, domain.ErrOrderNotFound
		}
		order, err = s.repo.FindByPaymentTxnRef(ref)
	default:
		return nil, domain.ErrUnknownPaymentMethod
	}
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *PaymentService) findByIDField(raw string) (*domain.Order, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return s.repo.FindByID(id)
}
