package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/events"
	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/services"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> ringkasan untuk dashboard admin: jumlah order dan
// revenue hari ini, order pending, serta total user terdaftar
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var todayOrders int64
	ac.DB.Model(&models.Order{}).Where("delivery_date = ?", today).Count(&todayOrders)

	var todayRevenue float64
	ac.DB.Model(&models.Order{}).
		Where("delivery_date = ? AND payment_status = ?", today, services.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&todayRevenue)

	var pendingOrders int64
	ac.DB.Model(&models.Order{}).Where("status = ?", services.OrderStatusPending).Count(&pendingOrders)

	var pendingPayments int64
	ac.DB.Model(&models.Order{}).Where("payment_status = ?", services.PaymentStatusPending).Count(&pendingPayments)

	var totalUsers int64
	ac.DB.Model(&models.User{}).Count(&totalUsers)

	stats := gin.H{
		"date":             today,
		"today_orders":     todayOrders,
		"today_revenue":    todayRevenue,
		"pending_orders":   pendingOrders,
		"pending_payments": pendingPayments,
		"total_users":      totalUsers,
	}

	events.BroadcastDashboardUpdate(stats)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetReports -> revenue per tanggal pengiriman dalam rentang ?start= ?end=
// (default 7 hari terakhir). Hanya order yang sudah dibayar yang dihitung.
func (ac *AdminController) GetReports(c *gin.Context) {
	end := c.DefaultQuery("end", time.Now().Format("2006-01-02"))
	start := c.DefaultQuery("start", time.Now().AddDate(0, 0, -6).Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", start); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid start date, expected YYYY-MM-DD"))
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid end date, expected YYYY-MM-DD"))
		return
	}

	type DailyRow struct {
		Date       string  `json:"date"`
		OrderCount int64   `json:"order_count"`
		Revenue    float64 `json:"revenue"`
	}

	var daily []DailyRow
	if err := ac.DB.Model(&models.Order{}).
		Select("delivery_date AS date, COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("delivery_date BETWEEN ? AND ? AND payment_status = ?", start, end, services.PaymentStatusPaid).
		Group("delivery_date").
		Order("delivery_date").
		Scan(&daily).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalRevenue float64
	var totalOrders int64
	for _, row := range daily {
		totalRevenue += row.Revenue
		totalOrders += row.OrderCount
	}

	utils.RespondJSON(c, http.StatusOK, "Revenue report", gin.H{
		"start":         start,
		"end":           end,
		"total_orders":  totalOrders,
		"total_revenue": totalRevenue,
		"daily":         daily,
	})
}

// GetOrderRecap -> rekap order per kelas untuk satu tanggal pengiriman,
// dipakai dapur/kasir saat distribusi. Default hari ini.
func (ac *AdminController) GetOrderRecap(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid date, expected YYYY-MM-DD"))
		return
	}

	var orders []models.Order
	if err := ac.DB.Preload("OrderItems").
		Where("delivery_date = ? AND payment_status = ?", date, services.PaymentStatusPaid).
		Order("child_class, child_name").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Kelompokkan per kelas, dan hitung total porsi per menu untuk dapur
	byClass := make(map[string][]models.Order)
	itemTotals := make(map[string]int)
	for _, o := range orders {
		byClass[o.ChildClass] = append(byClass[o.ChildClass], o)
		for _, item := range o.OrderItems {
			itemTotals[item.Name] += item.Quantity
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Order recap", gin.H{
		"date":        date,
		"total":       len(orders),
		"by_class":    byClass,
		"item_totals": itemTotals,
	})
}

// GetOrderSchedules -> daftar jadwal/kuota order per tanggal
func (ac *AdminController) GetOrderSchedules(c *gin.Context) {
	var schedules []models.OrderSchedule
	if err := ac.DB.Order("date").Find(&schedules).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order schedules", schedules)
}

// UpsertOrderSchedule -> buat atau ubah jadwal order untuk satu tanggal
func (ac *AdminController) UpsertOrderSchedule(c *gin.Context) {
	var body struct {
		Date       string `json:"date" binding:"required"`
		MaxOrders  int    `json:"max_orders"`
		IsBlocked  bool   `json:"is_blocked"`
		CutoffTime string `json:"cutoff_time"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid date, expected YYYY-MM-DD"))
		return
	}

	var schedule models.OrderSchedule
	err := ac.DB.Where("date = ?", body.Date).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		schedule = models.OrderSchedule{Date: body.Date}
	} else if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	schedule.MaxOrders = body.MaxOrders
	schedule.IsBlocked = body.IsBlocked
	schedule.CutoffTime = body.CutoffTime
	schedule.Notes = body.Notes

	if err := ac.DB.Save(&schedule).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order schedule saved", schedule)
}
