package models

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FullName  string `gorm:"type:varchar(255); not null" json:"full_name"`
	Email     string `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password  string `gorm:"type:varchar(255); not null" json:"-"`
	Phone     string `gorm:"type:varchar(32)" json:"phone"`
	Address   string `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
