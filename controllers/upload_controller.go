package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/mesh"
	"github.com/printforge/printforge-api/services"
	"github.com/printforge/printforge-api/utils"
)

// VerifyFile handles POST /api/v1/verify-file - parses an uploaded model
// file and returns its geometry summary without creating any order state.
// When storage is configured the file is also archived for later retrieval.
func VerifyFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A model file is required",
			},
		})
		return
	}

	if err := utils.ValidateModelFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	data, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}

	estimate, err := mesh.Parse(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PARSE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	// Archival is best-effort: a storage failure never blocks verification.
	var storageKey string
	if storage := services.GetStorageService(); storage != nil {
		if key, err := storage.UploadModel(fileHeader); err == nil {
			storageKey = key
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"filename":    fileHeader.Filename,
			"estimate":    estimate,
			"storage_key": storageKey,
		},
	})
}
