package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qr-order-backend/controllers"
	"qr-order-backend/middlewares"
	"qr-order-backend/models"
)

func setupAdminRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	adminCtrl := controllers.NewAdminController(db)
	r.POST("/api/admin/login", adminCtrl.Login)

	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"username": c.GetString("username"),
		})
	})
	return r
}

func createAdmin(t *testing.T, db *gorm.DB, username, password string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	db.Create(&models.Admin{Username: username, Password: string(hashed)})
}

func TestAdminLogin(t *testing.T) {
	db := setupTestDB(t)
	createAdmin(t, db, "admin", "admin123")
	r := setupAdminRouter(db)

	w := postJSON(t, r, "/api/admin/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Admin   struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"admin"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.Admin.Username)
}

func TestAdminLoginRejections(t *testing.T) {
	db := setupTestDB(t)
	createAdmin(t, db, "admin", "admin123")
	r := setupAdminRouter(db)

	// Wrong password
	w := postJSON(t, r, "/api/admin/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown user gets the same answer as a bad password
	w = postJSON(t, r, "/api/admin/login", map[string]string{
		"username": "ghost",
		"password": "admin123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing fields
	w = postJSON(t, r, "/api/admin/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	db := setupTestDB(t)
	createAdmin(t, db, "admin", "admin123")
	r := setupAdminRouter(db)

	// No token
	req, _ := http.NewRequest("GET", "/api/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token
	req, _ = http.NewRequest("GET", "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Real token from a login
	w = postJSON(t, r, "/api/admin/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req, _ = http.NewRequest("GET", "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Username string `json:"username"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.Username)
}
