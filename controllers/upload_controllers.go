package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"qr-order-backend/config"
	"qr-order-backend/utils"
)

const uploadDir = "public/uploads"

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// UploadFile -> staff uploads a menu image; responds with the public URL to
// store on the menu item.
func (uc *UploadController) UploadFile(c *gin.Context) {
	// 10MB cap
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondAppError(c, utils.ValidationError("Error processing form"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondAppError(c, utils.ValidationError("No file uploaded"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		utils.RespondAppError(c, utils.ValidationError("Only image files are allowed"))
		return
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	dest := filepath.Join(uploadDir, filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		utils.ErrorLogger.Printf("error saving upload %s: %v", filename, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Error saving file"))
		return
	}

	fileURL := fmt.Sprintf("%s/uploads/%s", config.ServerURL(), filename)
	utils.InfoLogger.Printf("File uploaded: %s", fileURL)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     fileURL,
	})
}
