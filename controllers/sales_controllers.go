package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qr-order-backend/models"
	"qr-order-backend/utils"
)

// SalesController is the read-side reporting surface: revenue over a date
// window, counting orders that were actually delivered (served or completed).
type SalesController struct {
	DB *gorm.DB
}

func NewSalesController(db *gorm.DB) *SalesController {
	return &SalesController{DB: db}
}

var revenueStatuses = []string{models.OrderServed, models.OrderCompleted}

// sumWindow totals revenue for created_at in [start, end).
func (sc *SalesController) sumWindow(start, end time.Time) (float64, int64, error) {
	var orders []models.Order
	err := sc.DB.Select("total_amount").
		Where("status IN ?", revenueStatuses).
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&orders).Error
	if err != nil {
		return 0, 0, err
	}

	var total float64
	for _, o := range orders {
		total += o.TotalAmount
	}
	return utils.Round2(total), int64(len(orders)), nil
}

// GetSalesToday -> revenue since local midnight.
func (sc *SalesController) GetSalesToday(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	total, count, err := sc.sumWindow(start, end)
	if err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", gin.H{
		"total":      total,
		"orderCount": count,
		"date":       start.Format("2006-01-02"),
	})
}

// GetSalesMonth -> revenue for the current calendar month. AddDate handles
// the December -> January rollover.
func (sc *SalesController) GetSalesMonth(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	total, count, err := sc.sumWindow(start, end)
	if err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", gin.H{
		"total":      total,
		"orderCount": count,
		"month":      start.Format("2006-01"),
	})
}

// GetSalesYear -> revenue for the current calendar year.
func (sc *SalesController) GetSalesYear(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	total, count, err := sc.sumWindow(start, end)
	if err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", gin.H{
		"total":      total,
		"orderCount": count,
		"year":       start.Format("2006"),
	})
}

type dailySales struct {
	Date       string  `json:"date"`
	Total      float64 `json:"total"`
	OrderCount int64   `json:"orderCount"`
}

// GetSalesByDateRange -> revenue for an explicit start..end range (end
// inclusive), plus a per-day breakdown keyed on the order's creation date.
func (sc *SalesController) GetSalesByDateRange(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		utils.RespondAppError(c, utils.ValidationError("Start and end dates are required"))
		return
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid start date"))
		return
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid end date"))
		return
	}
	// One day past the end date so the whole end date is included.
	end = end.AddDate(0, 0, 1)

	var orders []models.Order
	if err := sc.DB.Select("total_amount", "created_at").
		Where("status IN ?", revenueStatuses).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	var total float64
	byDate := make(map[string]*dailySales)
	for _, o := range orders {
		total += o.TotalAmount

		date := o.CreatedAt.In(time.Local).Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &dailySales{Date: date}
			byDate[date] = day
		}
		day.Total = utils.Round2(day.Total + o.TotalAmount)
		day.OrderCount++
	}

	breakdown := make([]dailySales, 0, len(byDate))
	for _, day := range byDate {
		breakdown = append(breakdown, *day)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Date < breakdown[j].Date
	})

	utils.RespondJSON(c, http.StatusOK, "", gin.H{
		"total":          utils.Round2(total),
		"orderCount":     len(orders),
		"dailyBreakdown": breakdown,
	})
}
