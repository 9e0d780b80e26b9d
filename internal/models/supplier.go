// internal/models/supplier.go
package models

import "time"

type Supplier struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"size:255;not null"`
	Address     string    `json:"address" gorm:"size:500"`
	ContactName string    `json:"contact_name" gorm:"size:255"`
	Phone       string    `json:"phone" gorm:"size:50"`
	Email       string    `json:"email" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Books []Book `json:"books,omitempty" gorm:"foreignKey:SupplierID"`
}
