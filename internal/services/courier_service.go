package services

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"settlement-service/internal/courier"
	"settlement-service/internal/domain"
	"settlement-service/internal/repository"
)

// CourierService dispatches bookings, tracking and rate quotes to the
// registered courier adapters. Booking never fails on provider downtime (it
// degrades to a synthetic tracking number); tracking is advisory and
// defaults to "In Transit" when the provider cannot be reached.
type CourierService struct {
	repo      repository.OrderRepository
	addresses repository.AddressRepository
	adapters  map[string]courier.Adapter
}

func NewCourierService(repo repository.OrderRepository, addresses repository.AddressRepository, adapters ...courier.Adapter) *CourierService {
	m := make(map[string]courier.Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Key()] = a
	}
	return &CourierService{repo: repo, addresses: addresses, adapters: m}
}

func (s *CourierService) adapter(name string) (courier.Adapter, error) {
	a, ok := s.adapters[name]
	if !ok {
		return nil, domain.ErrUnknownCourier
	}
	return a, nil
}

// BookForOrder books a shipment for an in-memory order and stamps the
// courier fields onto it. The caller persists. Used both by the settlement
// flow (pre-persist) and BookShipment (post-persist).
func (s *CourierService) BookForOrder(ctx context.Context, order *domain.Order, addr *domain.Address, courierName string) (*courier.BookingResult, error) {
	ad, err := s.adapter(courierName)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		names = append(names, it.Name)
	}

	result, err := ad.Book(ctx, courier.Shipment{
		OrderID:   order.ID,
		Address:   *addr,
		CODAmount: order.Amount,
		Weight:    1,
		ItemNames: names,
	})
	if err != nil {
		return nil, err
	}

	order.CourierName = courierName
	order.CourierTrackingNumber = result.TrackingNumber
	order.CourierStatus = "Booked"

	meta := result.CourierResponse
	if !result.Success {
		meta = map[string]any{"degraded": true, "error": result.Err}
	}
	if raw, err := json.Marshal(meta); err == nil {
		order.CourierMeta = raw
	}

	return result, nil
}

// BookShipment books a shipment for a persisted order owned by the
// requester and writes the courier fields exactly once.
func (s *CourierService) BookShipment(ctx context.Context, userID string, orderID uint64, courierName string) (*courier.BookingResult, *domain.Order, error) {
	order, err := s.repo.FindByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, nil, domain.ErrUnauthorized
	}

	addr, err := s.addresses.FindByID(order.AddressID)
	if err != nil {
		return nil, nil, err
	}
	if addr == nil {
		return nil, nil, domain.ErrAddressNotFound
	}

	result, err := s.BookForOrder(ctx, order, addr, courierName)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.Update(order); err != nil {
		return nil, nil, err
	}
	return result, order, nil
}

// TrackShipment is a read-only passthrough. Provider errors degrade to an
// advisory "In Transit" rather than surfacing to the end user; the booking
// confirmation already happened.
func (s *CourierService) TrackShipment(ctx context.Context, trackingNumber, courierName string) (*courier.TrackingInfo, error) {
	ad, err := s.adapter(courierName)
	if err != nil {
		return nil, err
	}

	info, err := ad.Track(ctx, trackingNumber)
	if err != nil {
		return &courier.TrackingInfo{Status: "In Transit"}, nil
	}
	return info, nil
}

// GetRates aggregates each adapter's local rate formula into a
// {courierKey: rate} map for UI display.
func (s *CourierService) GetRates(ctx context.Context, fromCity, toCity string, weight float64) (map[string]float64, error) {
	if weight <= 0 {
		weight = 1
	}

	type quote struct {
		key  string
		rate float64
	}
	quotes := make(chan quote, len(s.adapters))

	g, _ := errgroup.WithContext(ctx)
	for _, ad := range s.adapters {
		ad := ad
		g.Go(func() error {
			quotes <- quote{key: ad.Key(), rate: ad.Rate(weight)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(quotes)

	rates := make(map[string]float64, len(s.adapters))
	for q := range quotes {
		rates[q.key] = q.rate
	}
	return rates, nil
}
