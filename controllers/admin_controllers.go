package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qr-order-backend/models"
	"qr-order-backend/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// Login -> exchange username/password for a bearer token. Admin accounts
// come from the seeder; there is no registration endpoint.
func (ac *AdminController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		utils.RespondAppError(c, utils.ValidationError("Please provide username and password"))
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAppError(c, utils.AuthError("Invalid credentials"))
			return
		}
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		utils.RespondAppError(c, utils.AuthError("Invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.InfoLogger.Printf("Admin %s logged in", admin.Username)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}
