package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/models"
	"github.com/printforge/printforge-api/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successfully quote a volume-based order",
			requestBody: map[string]interface{}{
				"zip_code":      "18201",
				"filament_type": "PLA Basic",
				"quantity":      1,
				"volume":        100.0,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Successfully quote a rush order",
			requestBody: map[string]interface{}{
				"zip_code":      "18201",
				"filament_type": "PETG Basic",
				"quantity":      2,
				"rush_order":    true,
				"weight":        250.0,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Fail with unknown filament",
			requestBody: map[string]interface{}{
				"zip_code":      "18201",
				"filament_type": "Unobtanium",
				"volume":        100.0,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Unknown filament type",
		},
		{
			name: "Fail with missing zip code",
			requestBody: map[string]interface{}{
				"filament_type": "PLA Basic",
				"volume":        100.0,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid quote request",
		},
		{
			name: "Fail without volume or weight",
			requestBody: map[string]interface{}{
				"zip_code":      "18201",
				"filament_type": "PLA Basic",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "volume or weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			seedTestMaterials(t, db)

			router := gin.New()
			router.POST("/quote", CreateQuote)

			w, response := performJSON(t, router, http.MethodPost, "/quote", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				assert.Contains(t, response["error"].(string), tt.expectedError)
				return
			}

			// All cost lines are present and currency-formatted
			for _, field := range []string{"base_cost", "material_cost", "shipping_cost", "sales_tax", "total_cost_with_tax"} {
				value, ok := response[field].(string)
				require.True(t, ok, "missing field %s", field)
				parsed, err := pricing.ParseCurrency(value)
				require.NoError(t, err, "field %s is not a currency string: %q", field, value)
				assert.GreaterOrEqual(t, parsed, 0.0)
			}

			// Base cost is the fixed per-order fee
			assert.Equal(t, "$20.00", response["base_cost"])

			// The quote is persisted for audit
			var record models.QuoteRecord
			require.NoError(t, db.Last(&record).Error)
			assert.Equal(t, tt.requestBody["zip_code"], record.ZipCode)
			assert.Greater(t, record.TotalCents, 0)
		})
	}
}

func TestCreateQuoteRushSurcharge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	seedTestMaterials(t, db)

	router := gin.New()
	router.POST("/quote", CreateQuote)

	base := map[string]interface{}{
		"zip_code":      "18201",
		"filament_type": "PLA Basic",
		"quantity":      1,
		"volume":        100.0,
	}

	_, standard := performJSON(t, router, http.MethodPost, "/quote", base)

	rush := map[string]interface{}{}
	for k, v := range base {
		rush[k] = v
	}
	rush["rush_order"] = true
	_, rushed := performJSON(t, router, http.MethodPost, "/quote", rush)

	standardTotal, err := pricing.ParseCurrency(standard["total_cost_with_tax"].(string))
	require.NoError(t, err)
	rushedTotal, err := pricing.ParseCurrency(rushed["total_cost_with_tax"].(string))
	require.NoError(t, err)

	assert.Greater(t, rushedTotal, standardTotal, "Rush orders must cost more than standard ones")
	assert.Equal(t, "$20.00", rushed["rush_order_surcharge"])
}
