package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qr-order-backend/models"
	"qr-order-backend/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenuItems -> the full menu, grouped the way the ordering UI renders
// it (category, then name).
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Order("category ASC").Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", items)
}

// CreateMenuItem -> staff adds a dish.
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		ImageURL    string  `json:"image_url"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid menu item data"))
		return
	}
	if req.Name == "" || req.Category == "" || req.Price <= 0 {
		utils.RespondAppError(c, utils.ValidationError("Name, category and a positive price are required"))
		return
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.InfoLogger.Printf("Menu item created: %s (%s)", item.Name, item.Category)
	utils.RespondJSON(c, http.StatusCreated, "", item)
}

// findMenuItem resolves the :id path param to a menu item, writing the error
// response itself when it cannot.
func (mc *MenuController) findMenuItem(c *gin.Context) (*models.MenuItem, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		utils.RespondAppError(c, utils.NotFoundError("Menu item not found"))
		return nil, false
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAppError(c, utils.NotFoundError("Menu item not found"))
			return nil, false
		}
		utils.RespondAppError(c, utils.StorageError(err))
		return nil, false
	}
	return &item, true
}

// UpdateMenuItem -> partial update of a dish.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		ImageURL    *string  `json:"image_url"`
		IsAvailable *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid menu item data"))
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondAppError(c, utils.ValidationError("Price must be positive"))
			return
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	item.UpdatedAt = time.Now()

	if err := mc.DB.Save(item).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", item)
}

// DeleteMenuItem -> remove a dish. Historical orders keep their snapshots.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}

	if err := mc.DB.Delete(item).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}
