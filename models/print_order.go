package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrintOrder is a paid-for (or payment-pending) print job created at
// checkout handoff.
type PrintOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"` // e.g. "ORD-20260102-a1b2c3"

	MaterialID uint      `gorm:"not null;index" json:"material_id"`
	Material   *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	QuoteID    *uint     `gorm:"index" json:"quote_id,omitempty"`

	ModelFilename string  `json:"model_filename"`
	ModelStoreKey string  `json:"model_store_key"` // S3 key of the uploaded file
	VolumeCm3     float64 `gorm:"not null" json:"volume_cm3"`
	WeightG       float64 `gorm:"not null" json:"weight_g"`
	Quantity      int     `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	RushOrder     bool    `gorm:"not null;default:false" json:"rush_order"`

	// Contact and delivery address
	CustomerName  string `gorm:"not null" json:"customer_name"`
	CustomerEmail string `gorm:"not null" json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `gorm:"not null" json:"zip_code"`

	// Chosen shipping service
	ShippingServiceCode string `json:"shipping_service_code"`
	ShippingServiceName string `json:"shipping_service_name"`
	ShippingCostCents   int    `json:"shipping_cost_cents"`

	// Pricing
	SubtotalCents int     `json:"subtotal_cents"`
	TaxCents      int     `json:"tax_cents"`
	TotalCents    int     `json:"total_cents"`
	TaxRate       float64 `json:"tax_rate"`

	// Payment
	PaymentStatus  string `gorm:"not null;default:'unpaid'" json:"payment_status"` // unpaid, pending, paid, refunded
	PaymentLinkURL string `json:"payment_link_url"`

	// Order status
	OrderStatus string `gorm:"not null;default:'pending'" json:"order_status"` // pending, confirmed, printing, completed, cancelled

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PrintOrder model
func (PrintOrder) TableName() string {
	return "print_orders"
}

// NewOrderNumber generates a unique human-readable order number.
func NewOrderNumber(now time.Time) string {
	suffix := uuid.NewString()[:6]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
