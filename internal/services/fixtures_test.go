package services

import (
	"settlement-service/internal/domain"
	"settlement-service/internal/infra"
)

func testAddress(userID string) *domain.Address {
	return &domain.Address{
		ID:       1,
		UserID:   userID,
		FullName: "Ayesha Khan",
		Phone:    "03001234567",
		City:     "Lahore",
		Area:     "Gulberg III",
	}
}

func testProduct(id uint64, price, offerPrice float64) *infra.ProductInfo {
	return &infra.ProductInfo{
		ID:         id,
		Name:       "Headphones",
		Price:      price,
		OfferPrice: offerPrice,
	}
}

func testOrder(id uint64, userID string) *domain.Order {
	return &domain.Order{
		ID:            id,
		UserID:        userID,
		Email:         "u@example.com",
		Phone:         "03001234567",
		Amount:        1850,
		AddressID:     1,
		Status:        domain.StatusOrderPlaced,
		PaymentMethod: domain.PaymentCOD,
		PaymentStatus: domain.PaymentCompleted,
		Items: []domain.OrderItem{
			{ProductID: 11, Name: "Headphones", UnitPrice: 800, Quantity: 2},
		},
	}
}
