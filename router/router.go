package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/controllers"
	"github.com/dapoerattauhid/bisa-web-aja/middlewares"
	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/services"
)

func SetupRouter(db *gorm.DB, payments *services.PaymentService, midtrans *services.MidtransService) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	childCtrl := controllers.NewChildController(db)
	menuCtrl := controllers.NewMenuController(db)
	dailyMenuCtrl := controllers.NewDailyMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db, payments, midtrans)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Katalog bisa dilihat tanpa login
	r.GET("/categories", menuCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenuItems)
	r.GET("/menus/:item_id", menuCtrl.GetMenuItemByID)
	r.GET("/daily-menus", dailyMenuCtrl.GetDailyMenus)

	// Endpoint pembayaran untuk frontend checkout; CORS terbuka, preflight
	// OPTIONS ditangani oleh middleware CORS
	paymentGroup := r.Group("/payments")
	paymentGroup.Use(middlewares.PaymentRateLimiter())
	{
		paymentGroup.POST("", paymentCtrl.CreatePayment)
		paymentGroup.POST("/callback", paymentCtrl.HandlePaymentCallback)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)
		auth.PATCH("/profile", userCtrl.UpdateProfile)

		// Anak (parent)
		auth.GET("/children", childCtrl.GetMyChildren)
		auth.POST("/children", childCtrl.CreateChild)
		auth.PATCH("/children/:child_id", childCtrl.UpdateChild)
		auth.DELETE("/children/:child_id", childCtrl.DeleteChild)

		// Order (parent)
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetMyOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.POST("/orders/:order_id/pay", paymentCtrl.PayOrder)
		auth.POST("/orders/pay-batch", paymentCtrl.PayBatch)
		auth.GET("/orders/:order_id/payment-status", paymentCtrl.CheckOrderPaymentStatus)
	}

	// Staff: admin dan kasir
	staff := r.Group("/staff")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleCashier))
	{
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		staff.GET("/orders/:order_id/payment-status", paymentCtrl.CheckOrderPaymentStatus)

		staff.GET("/payments", paymentCtrl.GetPayments)
		staff.GET("/payments/:payment_id", paymentCtrl.GetPayment)
		staff.POST("/cash-payments", paymentCtrl.CreateCashPayment)

		staff.GET("/recap", adminCtrl.GetOrderRecap)
	}

	// Admin only
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.PATCH("/users/role", userCtrl.UpdateUserRole)

		admin.POST("/categories", menuCtrl.CreateCategory)
		admin.DELETE("/categories/:cat_id", menuCtrl.DeleteCategory)

		admin.POST("/menus", menuCtrl.CreateMenuItem)
		admin.PATCH("/menus/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menus/:item_id", menuCtrl.DeleteMenuItem)

		admin.POST("/daily-menus/populate", dailyMenuCtrl.PopulateDailyMenus)
		admin.PATCH("/daily-menus/:daily_menu_id", dailyMenuCtrl.UpdateDailyMenu)

		admin.GET("/schedules", adminCtrl.GetOrderSchedules)
		admin.POST("/schedules", adminCtrl.UpsertOrderSchedule)

		admin.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		admin.GET("/reports", adminCtrl.GetReports)
		admin.GET("/recap", adminCtrl.GetOrderRecap)
	}

	// WebSocket dashboard (admin/kasir); token lewat query string
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/dashboard", controllers.DashboardWSHandler)
	}

	return r
}
