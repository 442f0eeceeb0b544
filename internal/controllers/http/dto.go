package http

type OrderItemRequest struct {
	Product  uint64 `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Address       uint64             `json:"address" binding:"required"`
	Items         []OrderItemRequest `json:"items" binding:"required,dive"`
	CourierName   string             `json:"courierName"`
	PaymentMethod string             `json:"paymentMethod"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
}

type CourierSnapshot struct {
	CourierName           string `json:"courierName"`
	CourierTrackingNumber string `json:"courierTrackingNumber"`
	CourierStatus         string `json:"courierStatus"`
}

type CreateOrderResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	OrderID       uint64          `json:"orderId,omitempty"`
	Courier       CourierSnapshot `json:"courier"`
	PaymentMethod string          `json:"paymentMethod"`
}

type InitiatePaymentRequest struct {
	OrderID       uint64 `json:"orderId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

type CourierActionRequest struct {
	Action         string  `json:"action" binding:"required"`
	OrderID        uint64  `json:"orderId"`
	Courier        string  `json:"courier"`
	TrackingNumber string  `json:"trackingNumber"`
	FromCity       string  `json:"fromCity"`
	ToCity         string  `json:"toCity"`
	Weight         float64 `json:"weight"`
}
