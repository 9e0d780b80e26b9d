// internal/models/order.go
package models

import "time"

type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	ClientID        uint        `json:"client_id" gorm:"not null;index"`
	EmployeeID      uint        `json:"employee_id" gorm:"not null;index"`
	OrderDate       time.Time   `json:"order_date" gorm:"not null;index:idx_orders_order_date"`
	TotalAmount     float64     `json:"total_amount" gorm:"not null"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);not null"`
	DeliveryAddress string      `json:"delivery_address" gorm:"size:500"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Relationships
	Client        *Client              `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Employee      *Employee            `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem keeps the unit price as it was at order creation. Later
// changes to Book.Price never touch existing items.
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	BookID    uint    `json:"book_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`

	// Relationships
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

// OrderStatusHistory is append-only: rows are inserted on every status
// change and never updated or deleted while the order exists.
type OrderStatusHistory struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   uint        `json:"order_id" gorm:"not null;index"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null"`
	Comment   string      `json:"comment" gorm:"size:500"`
	ChangedAt time.Time   `json:"changed_at" gorm:"not null"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
