package courier

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"settlement-service/internal/domain"
)

// Shipment is the provider-agnostic booking input.
type Shipment struct {
	OrderID   uint64
	Address   domain.Address
	CODAmount float64
	Weight    float64
	ItemNames []string
}

// BookingResult never carries an error for provider downtime: failed
// bookings degrade to a locally generated tracking number so order placement
// is not blocked on courier availability. Err records the provider failure
// for manual reconciliation.
type BookingResult struct {
	Success         bool
	TrackingNumber  string
	CourierResponse map[string]any
	Err             string
}

type TrackingInfo struct {
	Status   string           `json:"status"`
	Location string           `json:"location,omitempty"`
	History  []map[string]any `json:"history,omitempty"`
}

// Adapter is implemented per courier provider. Book returns an error only
// for pre-flight validation failures (an unknown destination city); provider
// and transport failures are absorbed into a degraded BookingResult.
type Adapter interface {
	Key() string
	Book(ctx context.Context, s Shipment) (*BookingResult, error)
	Track(ctx context.Context, trackingNumber string) (*TrackingInfo, error)
	Rate(weight float64) float64
}

// UnknownCityError fails a booking closed instead of silently defaulting to
// a wrong city id; the caller must correct the address.
type UnknownCityError struct {
	City string
}

func (e *UnknownCityError) Error() string {
	return fmt.Sprintf("unknown city %q for courier booking", e.City)
}

func (s Shipment) consigneeAddress() string {
	return s.Address.Area + ", " + s.Address.City
}

func (s Shipment) productDetails() string {
	return strings.Join(s.ItemNames, ", ")
}

func (s Shipment) weightOrDefault() float64 {
	if s.Weight <= 0 {
		return 1
	}
	return s.Weight
}

func syntheticTrackingNumber(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
