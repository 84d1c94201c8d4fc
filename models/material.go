package models

import (
	"time"

	"gorm.io/gorm"
)

// Material represents one filament in the catalog. The catalog is
// reference data: seeded at startup, looked up by ID or name, never
// mutated by the intake flow.
type Material struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"` // e.g. "PLA Basic", "PETG HF"
	Description string         `json:"description"`
	DensityGCm3 float64        `gorm:"not null" json:"density_g_per_cm3"` // for weight calculation
	PricePerKg  float64        `gorm:"not null" json:"price_per_kg"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Material model
func (Material) TableName() string {
	return "materials"
}

// DefaultMaterials is the seed catalog for a fresh database.
func DefaultMaterials() []Material {
	return []Material{
		{Name: "PLA Basic", Description: "General-purpose PLA", DensityGCm3: 1.24, PricePerKg: 19.99, IsActive: true},
		{Name: "PLA Matte", Description: "Matte-finish PLA", DensityGCm3: 1.24, PricePerKg: 19.99, IsActive: true},
		{Name: "PETG Basic", Description: "Durable PETG", DensityGCm3: 1.27, PricePerKg: 19.99, IsActive: true},
		{Name: "PETG HF", Description: "High-flow PETG", DensityGCm3: 1.27, PricePerKg: 19.99, IsActive: true},
	}
}

// SeedMaterials inserts the default catalog when the table is empty.
func SeedMaterials(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Material{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	materials := DefaultMaterials()
	return db.Create(&materials).Error
}
