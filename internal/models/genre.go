// internal/models/genre.go
package models

import "time"

type Genre struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Books []Book `json:"books,omitempty" gorm:"many2many:book_genre"`
}

// BookGenre is the associative table resolving the Book/Genre
// many-to-many relationship. Rows are inserted explicitly by the
// catalog service so the composite-key conflict can be reported as a
// precise error instead of a driver failure.
type BookGenre struct {
	BookID  uint `json:"book_id" gorm:"primaryKey;autoIncrement:false"`
	GenreID uint `json:"genre_id" gorm:"primaryKey;autoIncrement:false"`
}

func (BookGenre) TableName() string {
	return "book_genre"
}
