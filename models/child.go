package models

import "time"

// Child adalah data anak milik orang tua (pemesan)
type Child struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	ClassName string    `gorm:"type:varchar(64);not null" json:"class_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
