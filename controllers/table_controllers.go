package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"qr-order-backend/config"
	"qr-order-backend/models"
	"qr-order-backend/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// qrPayload is the URL a customer lands on after scanning the table code.
func qrPayload(tableID uint) string {
	return fmt.Sprintf("%s/menu?table_id=%d", config.FrontendURL(), tableID)
}

// generateQRDataURL renders the payload as a PNG and returns it as a base64
// data URL, ready to drop into an <img> tag.
func generateQRDataURL(tableID uint) (string, error) {
	png, err := qrcode.Encode(qrPayload(tableID), qrcode.Medium, 300)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GetAllTables -> all tables, optionally filtered by status, sorted by number.
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Order("table_number ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", tables)
}

// findTable resolves the :id path param to a table, writing the error
// response itself when it cannot. The param is parsed before it gets near a
// query.
func (tc *TableController) findTable(c *gin.Context) (*models.Table, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		utils.RespondAppError(c, utils.NotFoundError("Table not found"))
		return nil, false
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAppError(c, utils.NotFoundError("Table not found"))
			return nil, false
		}
		utils.RespondAppError(c, utils.StorageError(err))
		return nil, false
	}
	return &table, true
}

// GetTableByID -> detail for one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", table)
}

// CreateTable -> staff adds a table; a QR code for it is generated right
// away. QR failure is logged but the table is still created.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number"`
		Capacity    int    `json:"capacity"`
		Location    string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TableNumber == "" {
		utils.RespondAppError(c, utils.ValidationError("Table number is required"))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Status:      models.TableAvailable,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if table.Capacity <= 0 {
		table.Capacity = 4
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		if isDuplicateErr(err) {
			utils.RespondAppError(c, utils.ConflictError("Table number already exists"))
			return
		}
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	if dataURL, err := generateQRDataURL(table.ID); err != nil {
		utils.ErrorLogger.Printf("QR generation failed for table %d: %v", table.ID, err)
	} else {
		table.QRCodeURL = dataURL
		if err := tc.DB.Model(&table).Update("qr_code_url", dataURL).Error; err != nil {
			utils.ErrorLogger.Printf("error storing QR code for table %d: %v", table.ID, err)
		}
	}

	utils.InfoLogger.Printf("Table %s created (id=%d)", table.TableNumber, table.ID)
	utils.RespondJSON(c, http.StatusCreated, "", table)
}

// UpdateTable -> partial update of number/capacity/location/status.
func (tc *TableController) UpdateTable(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var req struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
		Location    *string `json:"location"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid table data"))
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = *req.Location
	}
	if req.Status != nil {
		if !models.IsValidTableStatus(*req.Status) {
			utils.RespondAppError(c, utils.ValidationError("Invalid table status"))
			return
		}
		table.Status = *req.Status
	}
	table.UpdatedAt = time.Now()

	if err := tc.DB.Save(table).Error; err != nil {
		if isDuplicateErr(err) {
			utils.RespondAppError(c, utils.ConflictError("Table number already exists"))
			return
		}
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", table)
}

// DeleteTable -> remove a table; only sensible when it is not occupied.
func (tc *TableController) DeleteTable(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	if err := tc.DB.Delete(table).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", nil)
}

// RegenerateQRCode -> refresh the stored QR data URL, e.g. after the
// frontend origin changes.
func (tc *TableController) RegenerateQRCode(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	dataURL, err := generateQRDataURL(table.ID)
	if err != nil {
		utils.ErrorLogger.Printf("QR generation failed for table %d: %v", table.ID, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("QR generation failed"))
		return
	}

	table.QRCodeURL = dataURL
	table.UpdatedAt = time.Now()
	if err := tc.DB.Save(table).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", table)
}

// DownloadQRCode -> the table's QR as a PNG attachment for printing.
func (tc *TableController) DownloadQRCode(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	png, err := qrcode.Encode(qrPayload(table.ID), qrcode.Medium, 300)
	if err != nil {
		utils.ErrorLogger.Printf("QR generation failed for table %d: %v", table.ID, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("QR generation failed"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="table-%s-qr.png"`, table.TableNumber))
	c.Data(http.StatusOK, "image/png", png)
}

// isDuplicateErr matches unique-constraint violations across the mysql and
// sqlite drivers.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
