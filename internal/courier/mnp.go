package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"settlement-service/internal/config"
)

// cityIDs maps destination cities to M&P's numeric ids. Lookups fail closed;
// a typo must not ship a parcel to Karachi.
var cityIDs = map[string]int{
	"karachi":    1,
	"lahore":     2,
	"islamabad":  3,
	"rawalpindi": 4,
	"faisalabad": 5,
	"multan":     6,
	"peshawar":   7,
	"quetta":     8,
}

type MPAdapter struct {
	cfg    *config.MPConfig
	client *resty.Client
}

func NewMPAdapter(cfg *config.MPConfig) *MPAdapter {
	return &MPAdapter{
		cfg:    cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

func (a *MPAdapter) Key() string { return "mnp" }

func CityID(city string) (int, error) {
	id, ok := cityIDs[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return 0, &UnknownCityError{City: city}
	}
	return id, nil
}

func (a *MPAdapter) Book(ctx context.Context, s Shipment) (*BookingResult, error) {
	cityID, err := CityID(s.Address.City)
	if err != nil {
		// Validation failure, not provider downtime: propagate instead of
		// degrading to a synthetic booking.
		return nil, err
	}

	payload := map[string]any{
		"merchant_id":       a.cfg.MerchantID,
		"consignee_name":    s.Address.FullName,
		"consignee_address": s.consigneeAddress(),
		"consignee_phone":   s.Address.Phone,
		"consignee_city_id": cityID,
		"pieces":            1,
		"weight":            s.weightOrDefault(),
		"cod_amount":        s.CODAmount,
		"service_type":      "Normal",
		"product_details":   s.productDetails(),
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+a.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(a.cfg.BaseURL + "/book-packet")
	if err != nil {
		return a.degraded(err.Error()), nil
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return a.degraded(fmt.Sprintf("mnp returned status %d", resp.StatusCode())), nil
	}

	var parsed map[string]any
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return a.degraded("invalid response from mnp"), nil
	}
	tracking, _ := parsed["tracking_number"].(string)
	if tracking == "" {
		return a.degraded("mnp response missing tracking number"), nil
	}

	return &BookingResult{
		Success:         true,
		TrackingNumber:  tracking,
		CourierResponse: parsed,
	}, nil
}

func (a *MPAdapter) degraded(reason string) *BookingResult {
	log.Printf("courier degraded: mnp booking failed: %s", reason)
	return &BookingResult{
		Success:        false,
		Err:            reason,
		TrackingNumber: syntheticTrackingNumber("MP"),
	}
}

func (a *MPAdapter) Track(ctx context.Context, trackingNumber string) (*TrackingInfo, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+a.cfg.APIKey).
		Get(a.cfg.BaseURL + "/track/" + trackingNumber)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("mnp tracking returned status %d", resp.StatusCode())
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

func (a *MPAdapter) Rate(weight float64) float64 {
	const baseRate, perExtraKg = 230, 45
	if weight > 1 {
		return baseRate + (weight-1)*perExtraKg
	}
	return baseRate
}
