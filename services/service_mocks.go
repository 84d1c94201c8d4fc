package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/printforge/printforge-api/pricing"
)

// MockQuoteService is a mock implementation of the quote service for testing.
type MockQuoteService struct {
	mu       sync.Mutex
	Quote    *pricing.Quote
	Err      error
	Requests []QuoteRequest
}

// SetAsMockForTesting sets this mock as the global quote service instance.
func (m *MockQuoteService) SetAsMockForTesting() {
	SetQuoteService(m)
}

// GetQuote records the request and returns the configured quote or error.
func (m *MockQuoteService) GetQuote(_ context.Context, req QuoteRequest) (*pricing.Quote, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Quote, nil
}

// CallCount returns how many quote requests were issued.
func (m *MockQuoteService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockRateService is a mock implementation of the rate service for testing.
type MockRateService struct {
	mu       sync.Mutex
	Rates    []pricing.ShippingRateOption
	Err      error
	Requests []RateRequest
}

// SetAsMockForTesting sets this mock as the global rate service instance.
func (m *MockRateService) SetAsMockForTesting() {
	SetRateService(m)
}

// GetRates records the request and returns the configured rates or error.
func (m *MockRateService) GetRates(_ context.Context, req RateRequest) ([]pricing.ShippingRateOption, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rates, nil
}

// CallCount returns how many rate requests were issued.
func (m *MockRateService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockCheckoutService is a mock implementation of the checkout service for testing.
type MockCheckoutService struct {
	mu         sync.Mutex
	PaymentURL string
	Err        error
	Requests   []CheckoutRequest
}

// SetAsMockForTesting sets this mock as the global checkout service instance.
func (m *MockCheckoutService) SetAsMockForTesting() {
	SetCheckoutService(m)
}

// CreateCheckout records the request and returns the configured link or error.
func (m *MockCheckoutService) CreateCheckout(_ context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return &CheckoutResponse{PaymentURL: m.PaymentURL}, nil
}

// LastRequest returns the most recent checkout request, or nil.
func (m *MockCheckoutService) LastRequest() *CheckoutRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}

// MockStorageService is a mock implementation of model storage for testing.
type MockStorageService struct {
	mu            sync.RWMutex
	uploadedFiles map[string][]byte
}

// NewMockStorageService creates a new mock storage service.
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{
		uploadedFiles: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage service instance.
func (m *MockStorageService) SetAsMockForTesting() {
	SetStorageService(m)
}

// UploadModel simulates uploading a model file.
func (m *MockStorageService) UploadModel(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	storageKey := fmt.Sprintf("models/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.uploadedFiles[storageKey] = content
	m.mu.Unlock()

	return storageKey, nil
}

// GetPresignedURL simulates generating a presigned URL.
func (m *MockStorageService) GetPresignedURL(storageKey string) (string, error) {
	if storageKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.uploadedFiles[storageKey]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock storage: %s", storageKey)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", storageKey), nil
}

// DeleteModel simulates deleting a stored model.
func (m *MockStorageService) DeleteModel(storageKey string) error {
	m.mu.Lock()
	delete(m.uploadedFiles, storageKey)
	m.mu.Unlock()
	return nil
}

// FileExists checks if a file exists in mock storage.
func (m *MockStorageService) FileExists(storageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[storageKey]
	return exists
}
