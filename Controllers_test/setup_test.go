package Controllers_test

import (
	"fmt"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

var testDBCounter int64

// setupTestDB menggunakan SQLite in-memory untuk testing; nama unik per
// pemanggilan supaya data antar test tidak saling bocor
func setupTestDB() *gorm.DB {
	utils.InitLogger()

	dsn := fmt.Sprintf("file:ctrltest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	// AutoMigrate semua model yang diperlukan
	err = db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Child{},
		&models.Category{},
		&models.MenuItem{},
		&models.DailyMenu{},
		&models.OrderSchedule{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.CashPayment{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// authAs meniru AuthMiddleware: set user_id dan role langsung di context
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func seedUser(db *gorm.DB, email, role string) models.User {
	user := models.User{
		FullName: "Test User",
		Email:    email,
		Password: "hashed",
	}
	if err := db.Create(&user).Error; err != nil {
		panic(err)
	}
	if err := db.Create(&models.UserRole{UserID: user.ID, Role: role}).Error; err != nil {
		panic(err)
	}
	return user
}
