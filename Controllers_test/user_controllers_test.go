package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/controllers"
	"github.com/dapoerattauhid/bisa-web-aja/models"
)

// setupUserRouter mengonfigurasi router dengan endpoint user yang akan diuji
func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)

	return router
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB()
	router := setupUserRouter(db)

	// --- Test Register User ---
	registerPayload := map[string]string{
		"full_name": "Budi Santoso",
		"email":     "budi@example.com",
		"password":  "password123",
		"phone":     "08123456789",
	}
	payloadBytes, err := json.Marshal(registerPayload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/register", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var registerResponse map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &registerResponse)
	assert.NoError(t, err)
	assert.Equal(t, true, registerResponse["status"])
	data := registerResponse["data"].(map[string]interface{})
	assert.NotNil(t, data["user_id"])

	// User baru otomatis menjadi parent
	var role models.UserRole
	assert.NoError(t, db.Where("user_id = ?", uint(data["user_id"].(float64))).First(&role).Error)
	assert.Equal(t, models.RoleParent, role.Role)

	// --- Test Login User ---
	loginPayload := map[string]string{
		"email":    "budi@example.com",
		"password": "password123",
	}
	payloadBytes, _ = json.Marshal(loginPayload)

	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var loginResponse map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &loginResponse)
	assert.NoError(t, err)
	assert.Equal(t, true, loginResponse["status"])
	loginData := loginResponse["data"].(map[string]interface{})
	assert.NotEmpty(t, loginData["token"])
	assert.Equal(t, models.RoleParent, loginData["user_role"])
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB()
	router := setupUserRouter(db)

	registerPayload := map[string]string{
		"full_name": "Siti Aminah",
		"email":     "siti@example.com",
		"password":  "password123",
	}
	payloadBytes, _ := json.Marshal(registerPayload)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	loginPayload := map[string]string{
		"email":    "siti@example.com",
		"password": "salah-total",
	}
	payloadBytes, _ = json.Marshal(loginPayload)
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db := setupTestDB()
	router := setupUserRouter(db)

	registerPayload := map[string]string{
		"full_name": "Pendek",
		"email":     "pendek@example.com",
		"password":  "1234",
	}
	payloadBytes, _ := json.Marshal(registerPayload)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserRole(t *testing.T) {
	db := setupTestDB()
	admin := seedUser(db, "admin@example.com", models.RoleAdmin)
	target := seedUser(db, "kasir@example.com", models.RoleParent)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.PATCH("/admin/users/role", authAs(admin.ID, models.RoleAdmin), userCtrl.UpdateUserRole)

	payload, _ := json.Marshal(map[string]interface{}{
		"user_id": target.ID,
		"role":    models.RoleCashier,
	})
	req, _ := http.NewRequest("PATCH", "/admin/users/role", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var role models.UserRole
	assert.NoError(t, db.Where("user_id = ?", target.ID).First(&role).Error)
	assert.Equal(t, models.RoleCashier, role.Role)
}
