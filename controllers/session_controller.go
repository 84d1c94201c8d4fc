package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/models"
	"github.com/printforge/printforge-api/services"
	"github.com/printforge/printforge-api/utils"
	"github.com/printforge/printforge-api/workflow"
)

var sessionStore = workflow.NewSessionStore()

// SetSessionStore replaces the session store (primarily for testing).
func SetSessionStore(store *workflow.SessionStore) {
	sessionStore = store
}

// CreateSession handles POST /api/v1/sessions - starts a new intake session
func CreateSession(c *gin.Context) {
	session := sessionStore.Create()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// GetSession handles GET /api/v1/sessions/:id - returns the session state
func GetSession(c *gin.Context) {
	withSession(c, func(session *workflow.Session) error {
		return nil
	})
}

// DeleteSession handles DELETE /api/v1/sessions/:id - abandons a session
func DeleteSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	sessionStore.Delete(id)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// UploadSessionModel handles POST /api/v1/sessions/:id/model - attaches a
// model file to the session and advances it past the upload stage
func UploadSessionModel(c *gin.Context) {
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

	id, ok := sessionID(c)
	if !ok {
		return
	}
	exists, err := sessionStore.Upload(id, data)
	if !exists {
		sessionNotFound(c)
		return
	}
	if err != nil {
		sessionError(c, err)
		return
	}
	renderSession(c, id)
}

// UpdateSelectionsRequest represents the request body for selection edits.
// Every field is a pointer so that a PATCH only touches the keys it sends;
// omitted fields keep their previous values.
type UpdateSelectionsRequest struct {
	MaterialID *uint   `json:"material_id"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	ZipCode    *string `json:"zip_code"`
	Quantity   *int    `json:"quantity"`
	RushOrder  *bool   `json:"rush_order"`
}

// UpdateSessionSelections handles PATCH /api/v1/sessions/:id/selections -
// merges material, contact and order-option edits into the session
func UpdateSessionSelections(c *gin.Context) {
	var req UpdateSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	var material *models.Material
	if req.MaterialID != nil {
		db := config.GetDB()
		material = &models.Material{}
		if err := db.First(material, "id = ? AND is_active = ?", *req.MaterialID, true).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MATERIAL_NOT_FOUND",
					"message": "Material not found",
				},
			})
			return
		}
	}

	withSession(c, func(session *workflow.Session) error {
		if material != nil {
			session.SetMaterial(material)
		}
		selections := session.Selections()
		applyString(&selections.Email, req.Email)
		applyString(&selections.Name, req.Name)
		applyString(&selections.Phone, req.Phone)
		applyString(&selections.Street, req.Street)
		applyString(&selections.City, req.City)
		applyString(&selections.State, req.State)
		applyString(&selections.ZipCode, req.ZipCode)
		if req.Quantity != nil {
			selections.Quantity = *req.Quantity
		}
		if req.RushOrder != nil {
			selections.RushOrder = *req.RushOrder
		}
		return session.UpdateSelections(selections)
	})
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// RequestSessionQuote handles POST /api/v1/sessions/:id/quote - runs the
// configuration-to-review transition. The quote and rate calls go through
// the store so the session is not locked while they are in flight.
func RequestSessionQuote(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	exists, err := sessionStore.RequestQuote(c.Request.Context(), id)
	if !exists {
		sessionNotFound(c)
		return
	}
	if err != nil {
		sessionError(c, err)
		return
	}
	renderSession(c, id)
}

// SelectShippingRequest represents the request body for a rate reselection
type SelectShippingRequest struct {
	ServiceCode string `json:"service_code" binding:"required"`
}

// SelectSessionShipping handles POST /api/v1/sessions/:id/shipping -
// switches the selected shipping rate and reprices the order
func SelectSessionShipping(c *gin.Context) {
	var req SelectShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	withSession(c, func(session *workflow.Session) error {
		return session.SelectShippingRate(req.ServiceCode)
	})
}

// SessionBack handles POST /api/v1/sessions/:id/back - returns from review
// to configuration with selections intact
func SessionBack(c *gin.Context) {
	withSession(c, func(session *workflow.Session) error {
		return session.BackToConfiguration()
	})
}

// CheckoutSession handles POST /api/v1/sessions/:id/checkout - hands the
// reviewed order to the payment provider and returns the redirect URL
func CheckoutSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var paymentURL string
	exists, err := sessionStore.With(id, func(session *workflow.Session) error {
		url, checkoutErr := session.Checkout(c.Request.Context())
		paymentURL = url
		return checkoutErr
	})
	if !exists {
		sessionNotFound(c)
		return
	}
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"payment_url": paymentURL},
	})
}

// withSession runs fn under the session lock and renders the resulting
// snapshot, translating workflow and service errors to HTTP statuses.
func withSession(c *gin.Context, fn func(*workflow.Session) error) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var snapshot workflow.Snapshot
	exists, err := sessionStore.With(id, func(session *workflow.Session) error {
		fnErr := fn(session)
		snapshot = session.Snapshot()
		return fnErr
	})
	if !exists {
		sessionNotFound(c)
		return
	}
	if err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// renderSession responds with the current snapshot of the named session.
func renderSession(c *gin.Context, id uuid.UUID) {
	var snapshot workflow.Snapshot
	exists, _ := sessionStore.With(id, func(session *workflow.Session) error {
		snapshot = session.Snapshot()
		return nil
	})
	if !exists {
		sessionNotFound(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SESSION_ID",
				"message": "Session ID must be a valid UUID",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

func sessionNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "SESSION_NOT_FOUND",
			"message": "Session not found",
		},
	})
}

func sessionError(c *gin.Context, err error) {
	var validationErr *workflow.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
				"field":   validationErr.Field,
			},
		})
		return
	}

	var serviceErr *services.ServiceError
	if errors.As(err, &serviceErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_ERROR",
				"message": serviceErr.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "SESSION_ERROR",
			"message": err.Error(),
		},
	})
}
