package domain

import "time"

type OrderCreatedEvent struct {
	OrderID       uint64        `json:"orderId"`
	UserID        string        `json:"userId"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CourierName   string        `json:"courierName,omitempty"`
	Items         []OrderItem   `json:"items"`
	CreatedAt     time.Time     `json:"createdAt"`
}
