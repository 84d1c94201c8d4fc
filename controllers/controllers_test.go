package controllers

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Material{}, &models.QuoteRecord{}, &models.PrintOrder{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

func seedTestMaterials(t *testing.T, db *gorm.DB) []models.Material {
	t.Helper()

	if err := models.SeedMaterials(db); err != nil {
		t.Fatalf("Failed to seed materials: %v", err)
	}

	var materials []models.Material
	if err := db.Order("id").Find(&materials).Error; err != nil {
		t.Fatalf("Failed to load seeded materials: %v", err)
	}
	return materials
}

// buildTestSTL assembles a binary STL buffer with the given triangles, each
// triangle being nine vertex coordinates (three vertices).
func buildTestSTL(t *testing.T, triangles [][9]float32) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	buf.Write(make([]byte, 80))
	binary.Write(buf, binary.LittleEndian, uint32(len(triangles)))

	for _, tri := range triangles {
		// Normal vector, ignored by the parser
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

// defaultTestSTL is a two-triangle model spanning a 10 x 5 x 2 mm box.
func defaultTestSTL(t *testing.T) []byte {
	t.Helper()
	return buildTestSTL(t, [][9]float32{
		{0, 0, 0, 10, 0, 0, 0, 5, 0},
		{10, 5, 2, 0, 5, 2, 10, 0, 2},
	})
}

// multipartFile builds a multipart request body carrying one file field.
func multipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

// performJSON issues a JSON request against the router and decodes the
// response body into a generic map.
func performJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
		body = bytes.NewBuffer(encoded)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Response is not valid JSON: %v\nbody: %s", err, w.Body.String())
		}
	}
	return w, response
}

func performMultipart(t *testing.T, router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Response is not valid JSON: %v\nbody: %s", err, w.Body.String())
		}
	}
	return w, response
}
