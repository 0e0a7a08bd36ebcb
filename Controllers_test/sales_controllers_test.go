package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"qr-order-backend/controllers"
	"qr-order-backend/models"
)

func setupSalesRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	salesCtrl := controllers.NewSalesController(db)
	r.GET("/api/admin/sales/today", salesCtrl.GetSalesToday)
	r.GET("/api/admin/sales/month", salesCtrl.GetSalesMonth)
	r.GET("/api/admin/sales/year", salesCtrl.GetSalesYear)
	r.GET("/api/admin/sales", salesCtrl.GetSalesByDateRange)
	return r
}

func seedSalesOrder(db *gorm.DB, table models.Table, customer models.Customer, status string, total float64, at time.Time) {
	db.Create(&models.Order{
		TableID:     table.ID,
		CustomerID:  customer.ID,
		Status:      status,
		TotalAmount: total,
		CreatedAt:   at,
		UpdatedAt:   at,
	})
}

func TestGetSalesToday(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T1"}
	db.Create(&table)
	customer := models.Customer{Phone: "9876543210"}
	db.Create(&customer)

	now := time.Now()
	seedSalesOrder(db, table, customer, models.OrderCompleted, 433.65, now)
	seedSalesOrder(db, table, customer, models.OrderServed, 100, now)
	// Not revenue: still in the kitchen, or cancelled
	seedSalesOrder(db, table, customer, models.OrderPending, 999, now)
	seedSalesOrder(db, table, customer, models.OrderCancelled, 999, now)
	// Yesterday falls outside today's window
	seedSalesOrder(db, table, customer, models.OrderCompleted, 999, now.AddDate(0, 0, -1))

	r := setupSalesRouter(db)
	req, _ := http.NewRequest("GET", "/api/admin/sales/today", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Total      float64 `json:"total"`
			OrderCount int64   `json:"orderCount"`
			Date       string  `json:"date"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 533.65, resp.Data.Total)
	assert.Equal(t, int64(2), resp.Data.OrderCount)
	assert.Equal(t, now.Format("2006-01-02"), resp.Data.Date)
}

func TestGetSalesByDateRangeInclusiveEnd(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T1"}
	db.Create(&table)
	customer := models.Customer{Phone: "9876543210"}
	db.Create(&customer)

	day := func(d string) time.Time {
		ts, err := time.ParseInLocation("2006-01-02 15:04", d, time.Local)
		assert.NoError(t, err)
		return ts
	}

	seedSalesOrder(db, table, customer, models.OrderCompleted, 100, day("2024-01-01 12:00"))
	seedSalesOrder(db, table, customer, models.OrderCompleted, 200, day("2024-01-02 09:00"))
	// Late on the end date is still inside the range
	seedSalesOrder(db, table, customer, models.OrderServed, 50, day("2024-01-02 23:30"))
	// The day after is not
	seedSalesOrder(db, table, customer, models.OrderCompleted, 999, day("2024-01-03 00:30"))

	r := setupSalesRouter(db)
	req, _ := http.NewRequest("GET", "/api/admin/sales?start=2024-01-01&end=2024-01-02", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Total          float64 `json:"total"`
			OrderCount     int     `json:"orderCount"`
			DailyBreakdown []struct {
				Date       string  `json:"date"`
				Total      float64 `json:"total"`
				OrderCount int64   `json:"orderCount"`
			} `json:"dailyBreakdown"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 350.0, resp.Data.Total)
	assert.Equal(t, 3, resp.Data.OrderCount)

	assert.Len(t, resp.Data.DailyBreakdown, 2)
	assert.Equal(t, "2024-01-01", resp.Data.DailyBreakdown[0].Date)
	assert.Equal(t, 100.0, resp.Data.DailyBreakdown[0].Total)
	assert.Equal(t, int64(1), resp.Data.DailyBreakdown[0].OrderCount)
	assert.Equal(t, "2024-01-02", resp.Data.DailyBreakdown[1].Date)
	assert.Equal(t, 250.0, resp.Data.DailyBreakdown[1].Total)
	assert.Equal(t, int64(2), resp.Data.DailyBreakdown[1].OrderCount)
}

func TestGetSalesByDateRangeValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupSalesRouter(db)

	req, _ := http.NewRequest("GET", "/api/admin/sales?start=2024-01-01", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/api/admin/sales?start=notadate&end=2024-01-02", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSalesMonthAndYear(t *testing.T) {
	db := setupTestDB(t)
	table := models.Table{TableNumber: "T1"}
	db.Create(&table)
	customer := models.Customer{Phone: "9876543210"}
	db.Create(&customer)

	now := time.Now()
	seedSalesOrder(db, table, customer, models.OrderCompleted, 300, now)

	r := setupSalesRouter(db)

	req, _ := http.NewRequest("GET", "/api/admin/sales/month", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var monthResp struct {
		Data struct {
			Total float64 `json:"total"`
			Month string  `json:"month"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &monthResp))
	assert.Equal(t, 300.0, monthResp.Data.Total)
	assert.Equal(t, now.Format("2006-01"), monthResp.Data.Month)

	req, _ = http.NewRequest("GET", "/api/admin/sales/year", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var yearResp struct {
		Data struct {
			Total float64 `json:"total"`
			Year  string  `json:"year"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &yearResp))
	assert.Equal(t, 300.0, yearResp.Data.Total)
	assert.Equal(t, now.Format("2006"), yearResp.Data.Year)
}
