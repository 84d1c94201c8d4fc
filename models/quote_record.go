package models

import (
	"time"

	"gorm.io/gorm"
)

// QuoteRecord persists one computed quote for auditability. Monetary
// amounts are integer cents; the currency strings served to clients are
// derived, never stored.
type QuoteRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ModelFilename string  `json:"model_filename"`
	VolumeCm3     float64 `json:"volume_cm3"`
	WeightG       float64 `json:"weight_g"`

	MaterialID uint      `gorm:"index" json:"material_id"`
	Material   *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	RushOrder  bool      `gorm:"not null;default:false" json:"rush_order"`
	ZipCode    string    `json:"zip_code"` // for tax calculation

	BaseCostCents      int     `json:"base_cost_cents"`
	MaterialCostCents  int     `json:"material_cost_cents"`
	ShippingCostCents  int     `json:"shipping_cost_cents"`
	RushSurchargeCents int     `gorm:"default:0" json:"rush_surcharge_cents"`
	SubtotalCents      int     `json:"subtotal_cents"`
	TaxCents           int     `json:"tax_cents"`
	TotalCents         int     `json:"total_cents"`
	TaxRate            float64 `json:"tax_rate"`

	IsUsed bool `gorm:"not null;default:false" json:"is_used"` // converted to an order

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the QuoteRecord model
func (QuoteRecord) TableName() string {
	return "quotes"
}
