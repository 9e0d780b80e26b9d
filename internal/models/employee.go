// internal/models/employee.go
package models

import "time"

type Employee struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:50"`
	HireDate  time.Time `json:"hire_date" gorm:"not null"`
	Position  string    `json:"position" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:EmployeeID"`
}
