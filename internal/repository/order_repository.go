package repository

import (
	"settlement-service/internal/domain"
)

type OrderRepository interface {
	Save(order *domain.Order) error
	Update(order *domain.Order) error
	FindByID(id uint64) (*domain.Order, error)
	FindByUserID(userID string) ([]domain.Order, error)
	FindByPaymentTxnRef(txnRef string) (*domain.Order, error)
}

type AddressRepository interface {
	FindByID(id uint64) (*domain.Address, error)
}

type CartRepository interface {
	ClearCart(userID string) error
}
