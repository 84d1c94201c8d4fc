package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/models"
)

// GetMaterials handles GET /api/v1/materials - lists the active filament catalog
func GetMaterials(c *gin.Context) {
	db := config.GetDB()

	var materials []models.Material
	if err := db.Where("is_active = ?", true).Order("name").Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load materials",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
	})
}

// GetMaterial handles GET /api/v1/materials/:id - returns one material
func GetMaterial(c *gin.Context) {
	db := config.GetDB()

	var material models.Material
	if err := db.First(&material, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "Material not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}
