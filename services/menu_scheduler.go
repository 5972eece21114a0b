package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

const defaultDailyMaxQuantity = 100

// MenuScheduler mengisi jadwal menu harian dari katalog menu
type MenuScheduler struct {
	db *gorm.DB
}

// NewMenuScheduler membuat instance baru MenuScheduler
func NewMenuScheduler(db *gorm.DB) *MenuScheduler {
	return &MenuScheduler{db: db}
}

// PopulateDailyMenus membuat entri daily menu untuk `days` hari ke depan
// dari semua menu item yang tersedia. Entri yang sudah ada untuk pasangan
// (tanggal, menu item) dibiarkan; kuantitas berjalan tidak di-reset.
func (ms *MenuScheduler) PopulateDailyMenus(days int) (int, error) {
	var items []models.MenuItem
	if err := ms.db.Where("is_available = ?", true).Find(&items).Error; err != nil {
		return 0, err
	}

	if len(items) == 0 {
		utils.InfoLogger.Println("No available menu items to schedule")
		return 0, nil
	}

	created := 0
	now := time.Now()

	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i).Format("2006-01-02")

		for _, item := range items {
			entry := models.DailyMenu{
				Date:        date,
				MenuItemID:  item.ID,
				Price:       item.Price,
				IsAvailable: true,
				MaxQuantity: defaultDailyMaxQuantity,
			}

			res := ms.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}, {Name: "menu_item_id"}},
				DoNothing: true,
			}).Create(&entry)
			if res.Error != nil {
				return created, res.Error
			}
			created += int(res.RowsAffected)
		}
	}

	utils.InfoLogger.Printf("Daily menus populated: %d new entries over %d days", created, days)
	return created, nil
}
