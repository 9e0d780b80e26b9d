// internal/models/client.go
package models

import "time"

type Client struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Email     string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone     string     `json:"phone" gorm:"size:50"`
	Address   string     `json:"address" gorm:"size:500"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Orders  []Order      `json:"orders,omitempty" gorm:"foreignKey:ClientID"`
	Reviews []BookReview `json:"reviews,omitempty" gorm:"foreignKey:ClientID"`
}
