package models

import "time"

// OrderSchedule membatasi jumlah order per tanggal pengiriman
type OrderSchedule struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Date          string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"date"` // YYYY-MM-DD
	MaxOrders     int       `gorm:"not null;default:0" json:"max_orders"`              // 0 = tanpa batas
	CurrentOrders int       `gorm:"not null;default:0" json:"current_orders"`
	IsBlocked     bool      `gorm:"not null;default:false" json:"is_blocked"`
	CutoffTime    string    `gorm:"type:varchar(8)" json:"cutoff_time"` // HH:MM:SS, kosong = tanpa cutoff
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
