package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/printforge/printforge-api/pricing"
)

// DefaultParcelInches is the fixed parcel size sent on every rate request.
// The model's own bounding box is deliberately not used here; the parcel
// contract is pending product review, not a bug to fix locally.
const DefaultParcelInches = 5

// RateRequest is the wire shape the shipping-rate service accepts.
type RateRequest struct {
	ZipCode   string  `json:"zip_code"`
	Weight    float64 `json:"weight"` // pounds
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	RushOrder bool    `json:"rush_order"`
}

// RateInterface defines the interface for the shipping-rate service.
type RateInterface interface {
	GetRates(ctx context.Context, req RateRequest) ([]pricing.ShippingRateOption, error)
}

// RateService calls the remote rate endpoint over HTTP.
type RateService struct {
	client  *http.Client
	baseURL string
}

var rateServiceInstance RateInterface

// InitRateService initializes the shipping-rate service client.
func InitRateService(baseURL string) RateInterface {
	rateServiceInstance = &RateService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
	return rateServiceInstance
}

// GetRateService returns the initialized rate service instance.
func GetRateService() RateInterface {
	return rateServiceInstance
}

// SetRateService sets the rate service instance (primarily for testing).
func SetRateService(service RateInterface) {
	rateServiceInstance = service
}

type rateWireResponse struct {
	Rates []pricing.ShippingRateOption `json:"rates"`
	Error string                       `json:"error,omitempty"`
}

// GetRates fetches candidate shipping services for a destination and
// weight. The returned order is significant: the first option is the
// default selection. Callers treat any error here as non-fatal.
func (s *RateService) GetRates(ctx context.Context, req RateRequest) ([]pricing.ShippingRateOption, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/rates", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rate service unreachable: %w", err)
	}
	defer resp.Body.Close()

	var wire rateWireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || wire.Error != "" {
		return nil, NewServiceError("rates", wire.Error)
	}

	return wire.Rates, nil
}
