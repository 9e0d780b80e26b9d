// internal/models/book.go
package models

import "time"

type Book struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"size:255;not null;index:idx_books_title"`
	ISBN            string    `json:"isbn" gorm:"size:20;uniqueIndex;not null"`
	Description     string    `json:"description" gorm:"type:text"`
	Price           float64   `json:"price" gorm:"not null"`
	StockQuantity   int       `json:"stock_quantity" gorm:"not null;default:0"`
	PublicationYear int       `json:"publication_year" gorm:"not null"`
	AuthorID        uint      `json:"author_id" gorm:"not null;index"`
	SupplierID      uint      `json:"supplier_id" gorm:"not null;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Author       *Author        `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Supplier     *Supplier      `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Genres       []Genre        `json:"genres,omitempty" gorm:"many2many:book_genre"`
	PriceHistory []PriceHistory `json:"price_history,omitempty" gorm:"foreignKey:BookID"`
	Reviews      []BookReview   `json:"reviews,omitempty" gorm:"foreignKey:BookID"`
}

// PriceHistory records the periods during which a book carried a given
// price. Exactly one row per book is open (EffectiveTo == nil) at any
// time; changing the price closes it and opens the next one.
type PriceHistory struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	BookID        uint       `json:"book_id" gorm:"not null;index"`
	Price         float64    `json:"price" gorm:"not null"`
	EffectiveFrom time.Time  `json:"effective_from" gorm:"not null"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}
