package models

import "time"

// Roles yang dikenal oleh aplikasi
const (
	RoleParent  = "parent"
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// UserRole menyimpan role per user (satu baris per user)
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:'parent'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
