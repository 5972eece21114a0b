package models

import "time"

// CashPayment mencatat pelunasan tunai di kasir kantin
type CashPayment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	Order          Order     `gorm:"foreignKey:OrderID" json:"-"`
	CashierID      uint      `gorm:"not null" json:"cashier_id"`
	Amount         float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	ReceivedAmount float64   `gorm:"type:decimal(10,2);not null" json:"received_amount"`
	ChangeAmount   float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"change_amount"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}
