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

// QuoteRequest is the wire shape the external quote service accepts.
type QuoteRequest struct {
	ZipCode             string  `json:"zip_code"`
	FilamentType        string  `json:"filament_type"`
	Quantity            int     `json:"quantity"`
	RushOrder           bool    `json:"rush_order"`
	Volume              float64 `json:"volume"`
	Weight              float64 `json:"weight"`
	UseUSPSConnectLocal bool    `json:"use_usps_connect_local"`
}

// QuoteInterface defines the interface for the external quote service.
type QuoteInterface interface {
	GetQuote(ctx context.Context, req QuoteRequest) (*pricing.Quote, error)
}

// QuoteService calls the remote quote endpoint over HTTP.
type QuoteService struct {
	client  *http.Client
	baseURL string
}

var quoteServiceInstance QuoteInterface

// InitQuoteService initializes the quote service client.
func InitQuoteService(baseURL string) QuoteInterface {
	quoteServiceInstance = &QuoteService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
	return quoteServiceInstance
}

// GetQuoteService returns the initialized quote service instance.
func GetQuoteService() QuoteInterface {
	return quoteServiceInstance
}

// SetQuoteService sets the quote service instance (primarily for testing).
func SetQuoteService(service QuoteInterface) {
	quoteServiceInstance = service
}

// quoteWireResponse is the quote payload plus the error slot the service
// uses for non-success responses.
type quoteWireResponse struct {
	pricing.Quote
	Error string `json:"error,omitempty"`
}

// GetQuote requests a priced breakdown for one order configuration. A
// non-2xx status or an error field in the body is returned as a
// ServiceError carrying the server's message.
func (s *QuoteService) GetQuote(ctx context.Context, req QuoteRequest) (*pricing.Quote, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/quote", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("quote service unreachable: %w", err)
	}
	defer resp.Body.Close()

	var wire quoteWireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, NewServiceError("quote", "")
		}
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || wire.Error != "" {
		return nil, NewServiceError("quote", wire.Error)
	}

	return &wire.Quote, nil
}
