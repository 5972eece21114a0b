package models

import "time"

// OrderItem menyimpan snapshot nama/harga menu saat order dibuat,
// sehingga perubahan katalog tidak mengubah order lama.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint      `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	ImageURL   string    `gorm:"type:varchar(255)" json:"image_url"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
