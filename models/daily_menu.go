package models

import "time"

// DailyMenu menjadwalkan satu menu item untuk satu tanggal tertentu.
// Harga disalin dari menu item saat penjadwalan agar perubahan harga
// tidak mempengaruhi menu yang sudah terjadwal.
type DailyMenu struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Date            string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_menu_date_item" json:"date"` // YYYY-MM-DD
	MenuItemID      uint      `gorm:"not null;uniqueIndex:idx_daily_menu_date_item" json:"menu_item_id"`
	MenuItem        MenuItem  `gorm:"foreignKey:MenuItemID" json:"menu_item"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable     bool      `gorm:"not null;default:true" json:"is_available"`
	MaxQuantity     int       `gorm:"not null;default:100" json:"max_quantity"`
	CurrentQuantity int       `gorm:"not null;default:0" json:"current_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
