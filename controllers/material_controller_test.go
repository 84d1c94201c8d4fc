package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/models"
	"github.com/stretchr/testify/assert"
)

func TestGetMaterials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	seedTestMaterials(t, db)

	// One inactive material that must not be listed
	db.Create(&models.Material{Name: "ABS Legacy", DensityGCm3: 1.05, PricePerKg: 24.99, IsActive: false})

	router := gin.New()
	router.GET("/materials", GetMaterials)

	w, response := performJSON(t, router, http.MethodGet, "/materials", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response["success"].(bool))

	data := response["data"].([]interface{})
	assert.Len(t, data, 4, "Only active materials should be listed")

	names := make([]string, 0, len(data))
	for _, entry := range data {
		names = append(names, entry.(map[string]interface{})["name"].(string))
	}
	assert.NotContains(t, names, "ABS Legacy")
	assert.Contains(t, names, "PLA Basic")
	assert.Contains(t, names, "PETG HF")
}

func TestGetMaterial(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	materials := seedTestMaterials(t, db)

	router := gin.New()
	router.GET("/materials/:id", GetMaterial)

	t.Run("found", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, fmt.Sprintf("/materials/%d", materials[0].ID), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, materials[0].Name, data["name"])
		assert.Equal(t, materials[0].DensityGCm3, data["density_g_per_cm3"])
	})

	t.Run("not found", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, "/materials/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, response["success"].(bool))
		errBody := response["error"].(map[string]interface{})
		assert.Equal(t, "MATERIAL_NOT_FOUND", errBody["code"])
	})
}
