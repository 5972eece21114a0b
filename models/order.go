package models

import "time"

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	User            User        `gorm:"foreignKey:UserID" json:"-"`
	ChildName       string      `gorm:"type:varchar(255)" json:"child_name"`
	ChildClass      string      `gorm:"type:varchar(64)" json:"child_class"`
	DeliveryDate    string      `gorm:"type:varchar(10)" json:"delivery_date"` // YYYY-MM-DD
	Notes           string      `gorm:"type:text" json:"notes"`
	TotalAmount     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus   string      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod   string      `gorm:"type:varchar(20)" json:"payment_method"`
	MidtransOrderID *string     `gorm:"type:varchar(64);index" json:"midtrans_order_id"`
	OrderItems      []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

// HasGatewayID melaporkan apakah order sudah terikat ke satu transaksi gateway
func (o *Order) HasGatewayID() bool {
	return o.MidtransOrderID != nil && *o.MidtransOrderID != ""
}
