package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"settlement-service/internal/config"
)

type TCSAdapter struct {
	cfg    *config.TCSConfig
	client *resty.Client
}

func NewTCSAdapter(cfg *config.TCSConfig) *TCSAdapter {
	return &TCSAdapter{
		cfg:    cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

func (a *TCSAdapter) Key() string { return "tcs" }

func (a *TCSAdapter) Book(ctx context.Context, s Shipment) (*BookingResult, error) {
	payload := map[string]any{
		"consignee_name":    s.Address.FullName,
		"consignee_address": s.consigneeAddress(),
		"consignee_phone":   s.Address.Phone,
		"consignee_city":    s.Address.City,
		"pieces":            1,
		"weight":            s.weightOrDefault(),
		"cod_amount":        s.CODAmount,
		"service_type":      "O",
		"product_details":   s.productDetails(),
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+a.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(a.cfg.BaseURL + "/shipments")
	if err != nil {
		return a.degraded(err.Error()), nil
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return a.degraded(fmt.Sprintf("tcs returned status %d", resp.StatusCode())), nil
	}

	var parsed map[string]any
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return a.degraded("invalid response from tcs"), nil
	}
	tracking, _ := parsed["tracking_number"].(string)
	if tracking == "" {
		return a.degraded("tcs response missing tracking number"), nil
	}

	return &BookingResult{
		Success:         true,
		TrackingNumber:  tracking,
		CourierResponse: parsed,
	}, nil
}

// degraded is the availability-over-consistency fallback: a namespaced
// synthetic tracking number so order placement never blocks on TCS downtime.
func (a *TCSAdapter) degraded(reason string) *BookingResult {
	log.Printf("courier degraded: tcs booking failed: %s", reason)
	return &BookingResult{
		Success:        false,
		Err:            reason,
		TrackingNumber: syntheticTrackingNumber("TCS"),
	}
}

func (a *TCSAdapter) Track(ctx context.Context, trackingNumber string) (*TrackingInfo, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+a.cfg.APIKey).
		Get(a.cfg.BaseURL + "/track/" + trackingNumber)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tcs tracking returned status %d", resp.StatusCode())
	}

	var parsed struct {
		Status          string           `json:"status"`
		CurrentLocation string           `json:"current_location"`
		TrackingHistory []map[string]any `json:"tracking_history"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, err
	}

	return &TrackingInfo{
		Status:   parsed.Status,
		Location: parsed.CurrentLocation,
		History:  parsed.TrackingHistory,
	}, nil
}

// Rate is a local deterministic formula so checkout can quote instantly
// without a live round-trip.
func (a *TCSAdapter) Rate(weight float64) float64 {
	const baseRate, perExtraKg = 250, 50
	if weight > 1 {
		return baseRate + (weight-1)*perExtraKg
	}
	return baseRate
}
