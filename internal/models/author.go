// internal/models/author.go
package models

import "time"

type Author struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Biography string     `json:"biography" gorm:"type:text"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Country   string     `json:"country" gorm:"size:100"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Books []Book `json:"books,omitempty" gorm:"foreignKey:AuthorID"`
}
