package domain

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	StatusOrderPlaced      OrderStatus = "Order Placed"
	StatusPaymentConfirmed OrderStatus = "Payment Confirmed"
	StatusCancelled        OrderStatus = "Cancelled"
	StatusFulfilled        OrderStatus = "Fulfilled"
)

type PaymentMethod string

const (
	PaymentCOD       PaymentMethod = "cod"
	PaymentJazzCash  PaymentMethod = "jazzcash"
	PaymentEasyPaisa PaymentMethod = "easypaisa"
	PaymentPayPro    PaymentMethod = "paypro"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentJazzCash, PaymentEasyPaisa, PaymentPayPro:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Order is the central aggregate. Amount is fixed at creation time and never
// recomputed. Courier fields are written once by shipment booking, payment
// fields once by callback verification; no other mutation paths exist.
type Order struct {
	ID     uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID string `json:"userId" gorm:"not null;index"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Amount    float64 `json:"amount" gorm:"not null"`
	AddressID uint64  `json:"addressId" gorm:"not null"`

	Status OrderStatus `json:"status" gorm:"type:varchar(32);default:'Order Placed'"`

	CourierName           string         `json:"courierName" gorm:"type:varchar(16)"`
	CourierTrackingNumber string         `json:"courierTrackingNumber"`
	CourierStatus         string         `json:"courierStatus"`
	CourierMeta           datatypes.JSON `json:"courierMeta"`

	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(16);default:'cod'"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(16);default:'pending'"`
	PaymentTxnRef string        `json:"paymentTxnRef" gorm:"index"`
	PaymentTxnID  string        `json:"paymentTxnId"`
	PaymentError  string        `json:"paymentError"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem carries the server-resolved name and unit price at the time the
// order was placed; client-supplied prices are never persisted.
type OrderItem struct {
	ID        uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64  `json:"orderId" gorm:"index"`
	ProductID uint64  `json:"productId" gorm:"not null"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity" gorm:"not null"`
}

type Address struct {
	ID       uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   string `json:"userId" gorm:"not null;index"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Area     string `json:"area"`
}

type CartItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string `json:"userId" gorm:"not null;index"`
	ProductID uint64 `json:"productId" gorm:"not null"`
	Quantity  int    `json:"quantity" gorm:"not null"`
}
