package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/models"
	"github.com/printforge/printforge-api/pricing"
	"github.com/printforge/printforge-api/shipping"
)

// QuoteRequest represents the request body for a quote calculation
type QuoteRequest struct {
	ZipCode      string  `json:"zip_code" binding:"required"`
	FilamentType string  `json:"filament_type" binding:"required"`
	Quantity     int     `json:"quantity"`
	RushOrder    bool    `json:"rush_order"`
	Volume       float64 `json:"volume"`
	Weight       float64 `json:"weight"`
}

// CreateQuote handles POST /api/v1/quote - prices one order configuration.
// The response is the flat quote shape with an error slot, matching what
// the intake flow's quote client consumes.
func CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid quote request: " + err.Error(),
		})
		return
	}
	if req.Volume <= 0 && req.Weight <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Either volume or weight must be provided",
		})
		return
	}

	db := config.GetDB()
	var material models.Material
	if err := db.Where("name = ? AND is_active = ?", req.FilamentType, true).First(&material).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown filament type: " + req.FilamentType,
		})
		return
	}

	weightG := pricing.EffectiveWeightG(req.Volume, req.Weight, material.DensityGCm3)
	shippingLbs := pricing.ShippingWeightKg(weightG) * shipping.PoundsPerKg

	// Shipping is priced at the cheapest available service for the
	// destination; the rate endpoint offers the full list separately.
	var shippingCost float64
	if options := shipping.AvailableRates(req.ZipCode, shippingLbs, req.RushOrder); len(options) > 0 {
		shippingCost = options[0].Cost
	}

	breakdown := pricing.CalculateQuote(pricing.QuoteInput{
		PricePerKg:   material.PricePerKg,
		DensityGCm3:  material.DensityGCm3,
		Quantity:     req.Quantity,
		RushOrder:    req.RushOrder,
		VolumeCm3:    req.Volume,
		WeightG:      req.Weight,
		ShippingCost: shippingCost,
		TaxRate:      pricing.TaxRateForZip(req.ZipCode),
	})

	record := models.QuoteRecord{
		VolumeCm3:          req.Volume,
		WeightG:            breakdown.WeightG,
		MaterialID:         material.ID,
		Quantity:           req.Quantity,
		RushOrder:          req.RushOrder,
		ZipCode:            req.ZipCode,
		BaseCostCents:      toCents(breakdown.BaseCost),
		MaterialCostCents:  toCents(breakdown.MaterialCost),
		ShippingCostCents:  toCents(breakdown.ShippingCost),
		RushSurchargeCents: toCents(breakdown.RushSurcharge),
		SubtotalCents:      toCents(breakdown.Subtotal),
		TaxCents:           toCents(breakdown.SalesTax),
		TotalCents:         breakdown.TotalCents(),
		TaxRate:            pricing.TaxRateForZip(req.ZipCode),
	}
	if err := db.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to record quote",
		})
		return
	}

	c.JSON(http.StatusOK, breakdown.ToQuote())
}

// toCents converts a dollar amount to integer cents with rounding.
func toCents(dollars float64) int {
	return int(dollars*100 + 0.5)
}
