package integration

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/controllers"
	"github.com/printforge/printforge-api/middleware"
	"github.com/printforge/printforge-api/models"
	"github.com/printforge/printforge-api/services"
	"github.com/printforge/printforge-api/workflow"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// IntakeIntegrationTestSuite runs the full order-intake flow over HTTP.
// The quote, rate and checkout clients are pointed back at this API's own
// endpoints, so every external call travels through a real HTTP round trip.
type IntakeIntegrationTestSuite struct {
	suite.Suite
	router  *gin.Engine
	backend *httptest.Server
	db      *gorm.DB
}

// SetupSuite runs once before all tests
func (suite *IntakeIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

// SetupTest runs before each test
func (suite *IntakeIntegrationTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.Material{}, &models.QuoteRecord{}, &models.PrintOrder{}))
	suite.Require().NoError(models.SeedMaterials(db))
	config.SetDB(db)
	suite.db = db

	controllers.SetSessionStore(workflow.NewSessionStore())
	services.SetStorageService(nil)

	suite.router = gin.New()
	suite.router.Use(middleware.BodyLimit(middleware.MaxRequestBodySize))

	v1 := suite.router.Group("/api/v1")
	{
		v1.GET("/materials", controllers.GetMaterials)
		v1.POST("/verify-file", controllers.VerifyFile)
		v1.POST("/quote", controllers.CreateQuote)
		v1.POST("/rates", controllers.GetRates)
		v1.POST("/checkout", controllers.Checkout)

		v1.POST("/sessions", controllers.CreateSession)
		v1.GET("/sessions/:id", controllers.GetSession)
		v1.POST("/sessions/:id/model", controllers.UploadSessionModel)
		v1.PATCH("/sessions/:id/selections", controllers.UpdateSessionSelections)
		v1.POST("/sessions/:id/quote", controllers.RequestSessionQuote)
		v1.POST("/sessions/:id/shipping", controllers.SelectSessionShipping)
		v1.POST("/sessions/:id/checkout", controllers.CheckoutSession)
	}

	suite.backend = httptest.NewServer(suite.router)
	services.InitQuoteService(suite.backend.URL)
	services.InitRateService(suite.backend.URL)
	services.InitCheckoutService(suite.backend.URL)
}

// TearDownTest runs after each test
func (suite *IntakeIntegrationTestSuite) TearDownTest() {
	suite.backend.Close()
}

func (suite *IntakeIntegrationTestSuite) requestJSON(method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	}
	return w, response
}

func (suite *IntakeIntegrationTestSuite) uploadModel(path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	stl := buildBinarySTL([][9]float32{
		{0, 0, 0, 20, 0, 0, 0, 10, 0},
		{20, 10, 4, 0, 10, 4, 20, 0, 4},
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "bracket.stl")
	suite.Require().NoError(err)
	_, err = part.Write(stl)
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

// buildBinarySTL assembles a binary STL buffer with the given triangles.
func buildBinarySTL(triangles [][9]float32) []byte {
	buf := &bytes.Buffer{}
	buf.Write(make([]byte, 80))
	binary.Write(buf, binary.LittleEndian, uint32(len(triangles)))
	for _, tri := range triangles {
		for i := 0; i < 3; i++ {
			binary.Write(buf, binary.LittleEndian, math.Float32bits(0))
		}
		for _, v := range tri {
			binary.Write(buf, binary.LittleEndian, math.Float32bits(v))
		}
		buf.Write([]byte{0, 0})
	}
	return buf.Bytes()
}

// TestFullIntakeFlow walks a session from upload to payment link with every
// external call served by the API's own quote, rate and checkout endpoints.
func (suite *IntakeIntegrationTestSuite) TestFullIntakeFlow() {
	// Start a session
	w, response := suite.requestJSON(http.MethodPost, "/api/v1/sessions", nil)
	suite.Equal(http.StatusCreated, w.Code)
	id := response["data"].(map[string]interface{})["id"].(string)

	// Upload the model
	w, response = suite.uploadModel("/api/v1/sessions/" + id + "/model")
	suite.Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	suite.Equal("awaiting_configuration", data["stage"])

	// Pick a material from the catalog
	w, response = suite.requestJSON(http.MethodGet, "/api/v1/materials", nil)
	suite.Equal(http.StatusOK, w.Code)
	materials := response["data"].([]interface{})
	suite.Require().NotEmpty(materials)
	materialID := materials[0].(map[string]interface{})["id"].(float64)

	// Configure the order
	w, response = suite.requestJSON(http.MethodPatch, "/api/v1/sessions/"+id+"/selections", map[string]interface{}{
		"material_id": materialID,
		"email":       "maker@example.com",
		"name":        "Pat Maker",
		"street":      "1 Print Lane",
		"city":        "Hazleton",
		"state":       "PA",
		"zip_code":    "18201",
		"quantity":    2,
	})
	suite.Equal(http.StatusOK, w.Code)

	// Request the quote; rates come back over HTTP and the cheapest one is
	// auto-selected
	w, response = suite.requestJSON(http.MethodPost, "/api/v1/sessions/"+id+"/quote", nil)
	suite.Require().Equal(http.StatusOK, w.Code, "quote transition failed: %v", response)
	data = response["data"].(map[string]interface{})
	suite.Equal("awaiting_review", data["stage"])

	quote := data["quote"].(map[string]interface{})
	suite.Equal("$20.00", quote["base_cost"])

	rates := data["rates"].([]interface{})
	suite.Require().NotEmpty(rates)
	selected := data["selected_rate"].(map[string]interface{})
	suite.Equal(rates[0].(map[string]interface{})["serviceCode"], selected["serviceCode"])

	priced := data["priced"].(map[string]interface{})
	suite.Greater(priced["total"].(float64), priced["subtotal"].(float64))

	// Switch to another service and confirm only the shipping-dependent
	// lines move
	second := rates[1].(map[string]interface{})
	w, response = suite.requestJSON(http.MethodPost, "/api/v1/sessions/"+id+"/shipping", map[string]interface{}{
		"service_code": second["serviceCode"],
	})
	suite.Equal(http.StatusOK, w.Code)
	repriced := response["data"].(map[string]interface{})["priced"].(map[string]interface{})
	suite.Equal(priced["base_cost"], repriced["base_cost"])
	suite.Equal(priced["material_cost"], repriced["material_cost"])
	suite.InDelta(second["cost"].(float64), repriced["shipping_amount"].(float64), 1e-9)

	// Check out; the payment link is keyed by a persisted order
	w, response = suite.requestJSON(http.MethodPost, "/api/v1/sessions/"+id+"/checkout", nil)
	suite.Require().Equal(http.StatusOK, w.Code, "checkout failed: %v", response)
	paymentURL := response["data"].(map[string]interface{})["payment_url"].(string)
	suite.True(strings.HasPrefix(paymentURL, "/pay/ORD-"), "got %q", paymentURL)

	var order models.PrintOrder
	suite.Require().NoError(suite.db.Last(&order).Error)
	suite.Equal("maker@example.com", order.CustomerEmail)
	suite.Equal(second["serviceCode"], order.ShippingServiceCode)
}

// TestQuoteEndpointPersistsRecords verifies the stateless quote endpoint
// writes an audit row per request.
func (suite *IntakeIntegrationTestSuite) TestQuoteEndpointPersistsRecords() {
	for i := 0; i < 3; i++ {
		w, _ := suite.requestJSON(http.MethodPost, "/api/v1/quote", map[string]interface{}{
			"zip_code":      "18201",
			"filament_type": "PLA Basic",
			"quantity":      1,
			"volume":        50.0,
		})
		suite.Equal(http.StatusOK, w.Code)
	}

	var count int64
	suite.db.Model(&models.QuoteRecord{}).Count(&count)
	suite.Equal(int64(3), count)
}

// TestVerifyFileRejectsOversizedUpload verifies the body cap is enforced on
// the upload path.
func (suite *IntakeIntegrationTestSuite) TestVerifyFileRejectsOversizedUpload() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify-file", &bytes.Buffer{})
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.ContentLength = middleware.MaxRequestBodySize + 1
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

// TestIntakeIntegrationTestSuite runs the test suite
func TestIntakeIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntakeIntegrationTestSuite))
}
