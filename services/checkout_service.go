package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Fallback shipping values used when the user never selected a rate
// option; the order ships ground.
const (
	FallbackServiceCode = "03"
	FallbackServiceName = "UPS Ground"
	FallbackServiceCost = 0
)

// CheckoutRequest assembles contact, address, order configuration and the
// chosen shipping service for the payment-link provider.
type CheckoutRequest struct {
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone,omitempty"`
	Street          string  `json:"street"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	ZipCode         string  `json:"zip_code"`
	FilamentType    string  `json:"filament_type"`
	Quantity        int     `json:"quantity"`
	RushOrder       bool    `json:"rush_order"`
	Volume          float64 `json:"volume"`
	Weight          float64 `json:"weight"`
	ShippingCode    string  `json:"shipping_service_code"`
	ShippingService string  `json:"shipping_service_name"`
	ShippingCost    float64 `json:"shipping_cost"`
}

// CheckoutResponse carries the redirect target on success.
type CheckoutResponse struct {
	PaymentURL       string `json:"payment_url"`
	TotalAmountCents int    `json:"total_amount_cents"`
}

// CheckoutInterface defines the interface for the checkout service.
type CheckoutInterface interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
}

// CheckoutService calls the remote checkout endpoint over HTTP.
type CheckoutService struct {
	client  *http.Client
	baseURL string
}

var checkoutServiceInstance CheckoutInterface

// InitCheckoutService initializes the checkout service client.
func InitCheckoutService(baseURL string) CheckoutInterface {
	checkoutServiceInstance = &CheckoutService{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
	return checkoutServiceInstance
}

// GetCheckoutService returns the initialized checkout service instance.
func GetCheckoutService() CheckoutInterface {
	return checkoutServiceInstance
}

// SetCheckoutService sets the checkout service instance (primarily for testing).
func SetCheckoutService(service CheckoutInterface) {
	checkoutServiceInstance = service
}

type checkoutWireResponse struct {
	CheckoutResponse
	Detail string `json:"detail,omitempty"`
}

// CreateCheckout asks the payment provider for a payment link. Failures
// surface the server's detail field verbatim as a ServiceError.
func (s *CheckoutService) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout service unreachable: %w", err)
	}
	defer resp.Body.Close()

	var wire checkoutWireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, NewServiceError("checkout", "")
		}
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || wire.PaymentURL == "" {
		return nil, NewServiceError("checkout", wire.Detail)
	}

	return &wire.CheckoutResponse, nil
}
