package models

import "time"

// Payment represents a payment attempt recorded against an order.
// Untuk batch payment, TransactionID yang sama muncul di beberapa baris.
type Payment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	OrderID          uint      `json:"order_id" gorm:"index"`
	Order            Order     `json:"order" gorm:"foreignKey:OrderID"`
	Amount           float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status           string    `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod    string    `json:"payment_method" gorm:"type:varchar(20);not null;default:'midtrans'"`
	TransactionID    string    `json:"transaction_id" gorm:"type:varchar(64);index"`
	MidtransResponse string    `json:"midtrans_response" gorm:"type:text"` // raw gateway response JSON
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
