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

func setupMenuRouter(db *gorm.DB, adminID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	menuCtrl := controllers.NewMenuController(db)
	dailyMenuCtrl := controllers.NewDailyMenuController(db)

	router.GET("/menus", menuCtrl.GetAllMenuItems)
	router.GET("/daily-menus", dailyMenuCtrl.GetDailyMenus)
	router.POST("/admin/menus", authAs(adminID, models.RoleAdmin), menuCtrl.CreateMenuItem)
	router.POST("/admin/daily-menus/populate", authAs(adminID, models.RoleAdmin), dailyMenuCtrl.PopulateDailyMenus)

	return router
}

func TestCreateMenuItemAndFilterAvailable(t *testing.T) {
	db := setupTestDB()
	admin := seedUser(db, "admin-menu@example.com", models.RoleAdmin)
	router := setupMenuRouter(db, admin.ID)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":  "Ayam Bakar",
		"price": 18000,
	})
	req, _ := http.NewRequest("POST", "/admin/menus", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Item kedua tidak tersedia
	hidden := models.MenuItem{Name: "Menu Lama", Price: 10000}
	assert.NoError(t, db.Create(&hidden).Error)
	assert.NoError(t, db.Model(&hidden).Update("is_available", false).Error)

	req, _ = http.NewRequest("GET", "/menus?available=true", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Ayam Bakar", item["name"])
}

func TestCreateMenuItemRejectsZeroPrice(t *testing.T) {
	db := setupTestDB()
	admin := seedUser(db, "admin-menu2@example.com", models.RoleAdmin)
	router := setupMenuRouter(db, admin.ID)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":  "Gratis",
		"price": 0,
	})
	req, _ := http.NewRequest("POST", "/admin/menus", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPopulateDailyMenus(t *testing.T) {
	db := setupTestDB()
	admin := seedUser(db, "admin-menu3@example.com", models.RoleAdmin)
	router := setupMenuRouter(db, admin.ID)

	assert.NoError(t, db.Create(&models.MenuItem{Name: "Soto Ayam", Price: 13000, IsAvailable: true}).Error)
	assert.NoError(t, db.Create(&models.MenuItem{Name: "Gado-Gado", Price: 11000, IsAvailable: true}).Error)

	inactive := models.MenuItem{Name: "Nonaktif", Price: 9000}
	assert.NoError(t, db.Create(&inactive).Error)
	assert.NoError(t, db.Model(&inactive).Update("is_available", false).Error)

	req, _ := http.NewRequest("POST", "/admin/daily-menus/populate?days=3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	// 2 menu tersedia x 3 hari
	assert.Equal(t, float64(6), data["created"])

	// Populate ulang tidak menduplikasi entri
	req, _ = http.NewRequest("POST", "/admin/daily-menus/populate?days=3", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var total int64
	db.Model(&models.DailyMenu{}).Count(&total)
	assert.Equal(t, int64(6), total)
}

func TestPopulateDailyMenusRejectsBadDays(t *testing.T) {
	db := setupTestDB()
	admin := seedUser(db, "admin-menu4@example.com", models.RoleAdmin)
	router := setupMenuRouter(db, admin.ID)

	req, _ := http.NewRequest("POST", "/admin/daily-menus/populate?days=99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
