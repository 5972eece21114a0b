package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/config"
	"github.com/dapoerattauhid/bisa-web-aja/middlewares"
	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/router"
	"github.com/dapoerattauhid/bisa-web-aja/services"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Konfigurasi Midtrans eksplisit, diberikan ke service saat konstruksi
	midtransCfg := config.LoadMidtransConfig()
	if err := midtransCfg.Validate(); err != nil {
		utils.ErrorLogger.Printf("Warning: %v (payment endpoints will reject requests)", err)
	}

	midtransSvc := services.NewMidtransService(midtransCfg)
	paymentSvc := services.NewPaymentService(db, midtransSvc, midtransCfg)

	// Monitor pembayaran pending: cek status ke gateway secara berkala
	paymentMonitor := services.NewPaymentMonitor(db, paymentSvc)
	paymentMonitor.Start()
	defer paymentMonitor.Stop()

	// Bersihkan token blacklist yang sudah kadaluarsa tiap jam
	go func() {
		for range time.Tick(time.Hour) {
			utils.CleanupBlacklist()
		}
	}()

	// Setup rate limiter global (50 requests per detik per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	// Setup router
	r := router.SetupRouter(db, paymentSvc, midtransSvc)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
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
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
