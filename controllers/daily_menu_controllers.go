package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/services"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

type DailyMenuController struct {
	DB        *gorm.DB
	Scheduler *services.MenuScheduler
}

func NewDailyMenuController(db *gorm.DB) *DailyMenuController {
	return &DailyMenuController{
		DB:        db,
		Scheduler: services.NewMenuScheduler(db),
	}
}

// GetDailyMenus -> jadwal menu untuk satu tanggal (?date=YYYY-MM-DD,
// default hari ini)
func (dc *DailyMenuController) GetDailyMenus(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid date, expected YYYY-MM-DD"))
		return
	}

	var menus []models.DailyMenu
	if err := dc.DB.Preload("MenuItem").
		Where("date = ? AND is_available = ?", date, true).
		Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Daily menus", menus)
}

// PopulateDailyMenus (admin) -> isi jadwal menu ?days hari ke depan
// (default 7) dari semua menu yang tersedia
func (dc *DailyMenuController) PopulateDailyMenus(c *gin.Context) {
	days := 7
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 || parsed > 31 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("days must be between 1 and 31"))
			return
		}
		days = parsed
	}

	created, err := dc.Scheduler.PopulateDailyMenus(days)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Daily menus populated", gin.H{
		"days":    days,
		"created": created,
	})
}

// UpdateDailyMenu (admin) -> ubah ketersediaan/kuota satu entri jadwal
func (dc *DailyMenuController) UpdateDailyMenu(c *gin.Context) {
	menuID, _ := strconv.Atoi(c.Param("daily_menu_id"))

	var menu models.DailyMenu
	if err := dc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("daily menu not found"))
		return
	}

	var req struct {
		IsAvailable *bool    `json:"is_available"`
		MaxQuantity *int     `json:"max_quantity"`
		Price       *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.IsAvailable != nil {
		menu.IsAvailable = *req.IsAvailable
	}
	if req.MaxQuantity != nil {
		menu.MaxQuantity = *req.MaxQuantity
	}
	if req.Price != nil {
		menu.Price = *req.Price
	}

	if err := dc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Daily menu updated", menu)
}
