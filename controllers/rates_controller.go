package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/shipping"
)

// RatesRequest represents the request body for a shipping-rate lookup
type RatesRequest struct {
	ZipCode   string  `json:"zip_code" binding:"required"`
	Weight    float64 `json:"weight"` // pounds
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	RushOrder bool    `json:"rush_order"`
}

// GetRates handles POST /api/v1/rates - lists candidate shipping services
// for a destination and weight, cheapest first. The response is the flat
// rates shape with an error slot, matching what the rate client consumes.
func GetRates(c *gin.Context) {
	var req RatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid rate request: " + err.Error(),
		})
		return
	}

	rates := shipping.AvailableRates(req.ZipCode, req.Weight, req.RushOrder)
	if len(rates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"error": "No shipping services available for this destination",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rates": rates,
	})
}
