package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"settlement-service/internal/courier"
	"settlement-service/internal/domain"
	"settlement-service/internal/services"
)

type Handler struct {
	orders   *services.OrderService
	payments *services.PaymentService
	couriers *services.CourierService
	baseURL  string
}

func NewHandler(orders *services.OrderService, payments *services.PaymentService, couriers *services.CourierService, baseURL string) *Handler {
	return &Handler{orders: orders, payments: payments, couriers: couriers, baseURL: baseURL}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:orderId", h.GetOrder)
	r.GET("/orders/user/:userId", h.GetOrdersByUser)
	r.POST("/payment/initiate", h.InitiatePayment)
	r.POST("/payment/callback", h.PaymentCallback)
	r.GET("/payment/callback", h.PaymentCallback)
	r.POST("/courier", h.CourierAction)
}

// userID stands in for the upstream auth layer; the gateway injects the
// authenticated subject id as a header.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-Id")
}

func statusFor(err error) int {
	var cityErr *courier.UnknownCityError
	switch {
	case domain.IsValidation(err), errors.As(err, &cityErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrAddressNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownPaymentMethod), errors.Is(err, domain.ErrUnknownCourier):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseUint(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func formatUint(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	items := make([]services.CreateOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.CreateOrderItem{ProductID: it.Product, Quantity: it.Quantity})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		UserID:        uid,
		Email:         req.Email,
		Phone:         req.Phone,
		AddressID:     req.Address,
		Items:         items,
		CourierName:   req.CourierName,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{
		Success: true,
		Message: "Order Placed",
		OrderID: order.ID,
		Courier: CourierSnapshot{
			CourierName:           order.CourierName,
			CourierTrackingNumber: order.CourierTrackingNumber,
			CourierStatus:         order.CourierStatus,
		},
		PaymentMethod: string(order.PaymentMethod),
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseUint(c.Param("orderId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handler) GetOrdersByUser(c *gin.Context) {
	orders, err := h.orders.GetOrdersByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *Handler) InitiatePayment(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	result, err := h.payments.InitiatePayment(c.Request.Context(), uid, req.OrderID, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	resp := gin.H{"success": true, "paymentUrl": result.PaymentURL}
	if len(result.FormData) > 0 {
		resp["formData"] = result.FormData
	}
	c.JSON(http.StatusOK, resp)
}

// PaymentCallback is hit by the gateway as a server-to-server call or a
// browser redirect, so it always answers with a redirect, never a raw JSON
// error.
func (h *Handler) PaymentCallback(c *gin.Context) {
	payload := map[string]string{}
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range c.Request.PostForm {
				if len(v) > 0 {
					payload[k] = v[0]
				}
			}
		}
	}
	for k, v := range c.Request.URL.Query() {
		if _, exists := payload[k]; !exists && len(v) > 0 {
			payload[k] = v[0]
		}
	}

	// The discriminant is routing metadata, not part of any provider's
	// signed field set.
	hint := payload["provider"]
	delete(payload, "provider")

	outcome, err := h.payments.VerifyCallback(c.Request.Context(), payload, hint)
	if err != nil {
		c.Redirect(http.StatusFound, h.baseURL+"/payment/failed")
		return
	}

	if outcome.Succeeded {
		c.Redirect(http.StatusFound, h.baseURL+"/payment/success?orderId="+formatUint(outcome.OrderID))
		return
	}
	c.Redirect(http.StatusFound, h.baseURL+"/payment/failed?orderId="+formatUint(outcome.OrderID))
}

func (h *Handler) CourierAction(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req CourierActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "book":
		if req.OrderID == 0 || req.Courier == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderId and courier are required"})
			return
		}
		result, order, err := h.couriers.BookShipment(ctx, uid, req.OrderID, req.Courier)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"trackingNumber": result.TrackingNumber,
			"courierStatus":  order.CourierStatus,
			"degraded":       !result.Success,
		})

	case "track":
		if req.TrackingNumber == "" || req.Courier == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "trackingNumber and courier are required"})
			return
		}
		info, err := h.couriers.TrackShipment(ctx, req.TrackingNumber, req.Courier)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "tracking": info})

	case "rates":
		rates, err := h.couriers.GetRates(ctx, req.FromCity, req.ToCity, req.Weight)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "rates": rates})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid action"})
	}
}
