package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/models"
	"github.com/printforge/printforge-api/pricing"
)

// CheckoutRequest represents the request body for a checkout handoff
type CheckoutRequest struct {
	Email           string  `json:"email" binding:"required,email"`
	Name            string  `json:"name" binding:"required"`
	Phone           string  `json:"phone"`
	Street          string  `json:"street" binding:"required"`
	City            string  `json:"city" binding:"required"`
	State           string  `json:"state" binding:"required"`
	ZipCode         string  `json:"zip_code" binding:"required"`
	FilamentType    string  `json:"filament_type" binding:"required"`
	Quantity        int     `json:"quantity"`
	RushOrder       bool    `json:"rush_order"`
	Volume          float64 `json:"volume"`
	Weight          float64 `json:"weight"`
	ShippingCode    string  `json:"shipping_service_code"`
	ShippingService string  `json:"shipping_service_name"`
	ShippingCost    float64 `json:"shipping_cost"`
	ModelFilename   string  `json:"model_filename"`
	ModelStoreKey   string  `json:"model_store_key"`
}

// Checkout handles POST /api/v1/checkout - reprices the order server-side,
// persists it and returns the payment link. The response is the flat
// payment shape with a detail slot, matching what the checkout client
// consumes. The client's displayed totals are never trusted; the price is
// recomputed here from the same inputs.
func Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid checkout request: " + err.Error(),
		})
		return
	}
	if req.Volume <= 0 && req.Weight <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Either volume or weight must be provided",
		})
		return
	}

	db := config.GetDB()
	var material models.Material
	if err := db.Where("name = ? AND is_active = ?", req.FilamentType, true).First(&material).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Unknown filament type: " + req.FilamentType,
		})
		return
	}

	taxRate := pricing.TaxRateForZip(req.ZipCode)
	breakdown := pricing.CalculateQuote(pricing.QuoteInput{
		PricePerKg:   material.PricePerKg,
		DensityGCm3:  material.DensityGCm3,
		Quantity:     req.Quantity,
		RushOrder:    req.RushOrder,
		VolumeCm3:    req.Volume,
		WeightG:      req.Weight,
		ShippingCost: req.ShippingCost,
		TaxRate:      taxRate,
	})

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	order := models.PrintOrder{
		OrderNumber:         models.NewOrderNumber(time.Now()),
		MaterialID:          material.ID,
		ModelFilename:       req.ModelFilename,
		ModelStoreKey:       req.ModelStoreKey,
		VolumeCm3:           req.Volume,
		WeightG:             breakdown.WeightG,
		Quantity:            quantity,
		RushOrder:           req.RushOrder,
		CustomerName:        req.Name,
		CustomerEmail:       req.Email,
		CustomerPhone:       req.Phone,
		Street:              req.Street,
		City:                req.City,
		State:               req.State,
		ZipCode:             req.ZipCode,
		ShippingServiceCode: req.ShippingCode,
		ShippingServiceName: req.ShippingService,
		ShippingCostCents:   toCents(req.ShippingCost),
		SubtotalCents:       toCents(breakdown.Subtotal),
		TaxCents:            toCents(breakdown.SalesTax),
		TotalCents:          breakdown.TotalCents(),
		TaxRate:             taxRate,
		PaymentStatus:       "pending",
		OrderStatus:         "pending",
	}

	// The payment page is hosted separately and keyed by order number; the
	// link stays valid until the order is paid or cancelled.
	order.PaymentLinkURL = fmt.Sprintf("/pay/%s", order.OrderNumber)

	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "Failed to create order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_url":        order.PaymentLinkURL,
		"total_amount_cents": order.TotalCents,
		"order_number":       order.OrderNumber,
	})
}
