package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"qr-order-backend/controllers"
	"qr-order-backend/models"
)

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tableCtrl := controllers.NewTableController(db)
	r.GET("/api/tables", tableCtrl.GetAllTables)
	r.GET("/api/tables/:id", tableCtrl.GetTableByID)
	r.POST("/api/tables", tableCtrl.CreateTable)
	r.PUT("/api/tables/:id", tableCtrl.UpdateTable)
	r.DELETE("/api/tables/:id", tableCtrl.DeleteTable)
	r.POST("/api/tables/:id/qr", tableCtrl.RegenerateQRCode)
	r.GET("/api/tables/:id/qr/download", tableCtrl.DownloadQRCode)
	return r
}

func TestCreateTableGeneratesQRCode(t *testing.T) {
	db := setupTestDB(t)
	r := setupTableRouter(db)

	w := postJSON(t, r, "/api/tables", map[string]interface{}{
		"table_number": "T1",
		"capacity":     6,
		"location":     "Patio",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Table `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "T1", resp.Data.TableNumber)
	assert.Equal(t, 6, resp.Data.Capacity)
	assert.Equal(t, models.TableAvailable, resp.Data.Status)
	assert.True(t, strings.HasPrefix(resp.Data.QRCodeURL, "data:image/png;base64,"))
}

func TestCreateTableDefaultsAndValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupTableRouter(db)

	// Missing table number
	w := postJSON(t, r, "/api/tables", map[string]interface{}{"capacity": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Capacity defaults to 4
	w = postJSON(t, r, "/api/tables", map[string]interface{}{"table_number": "T2"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data models.Table `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Capacity)
}

func TestCreateTableDuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	r := setupTableRouter(db)

	w := postJSON(t, r, "/api/tables", map[string]interface{}{"table_number": "T1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/tables", map[string]interface{}{"table_number": "T1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Table number already exists", resp.Message)
}

func TestUpdateTableStatus(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T1", Status: models.TableAvailable}
	db.Create(&table)
	r := setupTableRouter(db)

	// Invalid status value
	body, _ := json.Marshal(map[string]string{"status": "exploded"})
	req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/tables/%d", table.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Valid partial update
	body, _ = json.Marshal(map[string]interface{}{
		"status":   models.TableReserved,
		"location": "Window",
	})
	req, _ = http.NewRequest("PUT", fmt.Sprintf("/api/tables/%d", table.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Table
	db.First(&updated, table.ID)
	assert.Equal(t, models.TableReserved, updated.Status)
	assert.Equal(t, "Window", updated.Location)
	// Untouched fields keep their values
	assert.Equal(t, "T1", updated.TableNumber)
}

func TestDeleteTable(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T1"}
	db.Create(&table)
	r := setupTableRouter(db)

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/tables/%d", table.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Zero(t, count)

	// Deleting again is a 404
	req, _ = http.NewRequest("DELETE", fmt.Sprintf("/api/tables/%d", table.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegenerateQRCode(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T1"}
	db.Create(&table)
	r := setupTableRouter(db)

	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/tables/%d/qr", table.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var refreshed models.Table
	db.First(&refreshed, table.ID)
	assert.True(t, strings.HasPrefix(refreshed.QRCodeURL, "data:image/png;base64,"))
}

func TestDownloadQRCode(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T7"}
	db.Create(&table)
	r := setupTableRouter(db)

	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/tables/%d/qr/download", table.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "table-T7-qr.png")
	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestTableMalformedIDIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T1"}
	db.Create(&table)
	r := setupTableRouter(db)

	for _, url := range []string{
		"/api/tables/abc",
		"/api/tables/1%20OR%201=1",
	} {
		req, _ := http.NewRequest("GET", url, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, url)
		assert.NotContains(t, w.Body.String(), `"table_number":"T1"`, url)
	}

	req, _ := http.NewRequest("DELETE", "/api/tables/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetAllTablesFilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: "T1", Status: models.TableAvailable})
	db.Create(&models.Table{TableNumber: "T2", Status: models.TableOccupied})
	db.Create(&models.Table{TableNumber: "T3", Status: models.TableAvailable})
	r := setupTableRouter(db)

	req, _ := http.NewRequest("GET", "/api/tables?status=available", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Table `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	// Sorted by table number
	assert.Equal(t, "T1", resp.Data[0].TableNumber)
	assert.Equal(t, "T3", resp.Data[1].TableNumber)
}
