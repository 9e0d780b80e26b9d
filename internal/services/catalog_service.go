// internal/services/catalog_service.go
package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bookstore-backend/internal/apperrors"
	"bookstore-backend/internal/database"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/utils"
)

// CatalogService owns authors, genres, suppliers and books, including
// the book/genre associations and the price history ledger.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type CreateAuthorRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Biography string     `json:"biography"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Country   string     `json:"country" validate:"max=100"`
}

type CreateGenreRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type CreateSupplierRequest struct {
	CompanyName string `json:"company_name" validate:"required,max=255"`
	Address     string `json:"address" validate:"max=500"`
	ContactName string `json:"contact_name" validate:"max=255"`
	Phone       string `json:"phone" validate:"max=50"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
}

type CreateBookRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	ISBN            string  `json:"isbn" validate:"required,min=10,max=20"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" validate:"gte=0"`
	StockQuantity   int     `json:"stock_quantity" validate:"gte=0"`
	PublicationYear int     `json:"publication_year" validate:"publication_year"`
	AuthorID        uint    `json:"author_id" validate:"required"`
	SupplierID      uint    `json:"supplier_id" validate:"required"`
	GenreIDs        []uint  `json:"genre_ids"`
}

func (s *CatalogService) CreateAuthor(req *CreateAuthorRequest) (*models.Author, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	author := &models.Author{
		Name:      req.Name,
		Biography: req.Biography,
		BirthDate: req.BirthDate,
		Country:   req.Country,
	}
	if err := s.db.Create(author).Error; err != nil {
		return nil, apperrors.FromDB(err, "create author")
	}
	return author, nil
}

func (s *CatalogService) CreateGenre(req *CreateGenreRequest) (*models.Genre, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	genre := &models.Genre{Name: req.Name, Description: req.Description}
	if err := s.db.Create(genre).Error; err != nil {
		return nil, apperrors.FromDB(err, "create genre")
	}
	return genre, nil
}

func (s *CatalogService) CreateSupplier(req *CreateSupplierRequest) (*models.Supplier, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	supplier := &models.Supplier{
		CompanyName: req.CompanyName,
		Address:     req.Address,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
	}
	if err := s.db.Create(supplier).Error; err != nil {
		return nil, apperrors.FromDB(err, "create supplier")
	}
	return supplier, nil
}

// CreateBookWithGenres inserts a book together with its genre links and
// the opening price-history row as one atomic unit. Either the book and
// every link persist, or nothing does.
func (s *CatalogService) CreateBookWithGenres(req *CreateBookRequest) (*models.Book, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	if err := s.checkExists(&models.Author{}, req.AuthorID, "author"); err != nil {
		return nil, err
	}
	if err := s.checkExists(&models.Supplier{}, req.SupplierID, "supplier"); err != nil {
		return nil, err
	}

	// Every referenced genre must resolve before any write begins.
	if len(req.GenreIDs) > 0 {
		var genres []models.Genre
		if err := s.db.Where("id IN ?", req.GenreIDs).Find(&genres).Error; err != nil {
			return nil, apperrors.FromDB(err, "load genres")
		}
		found := make(map[uint]bool, len(genres))
		for _, g := range genres {
			found[g.ID] = true
		}
		for _, id := range req.GenreIDs {
			if !found[id] {
				return nil, apperrors.NotFound("genre %d not found", id)
			}
		}
	}

	var count int64
	if err := s.db.Model(&models.Book{}).Where("isbn = ?", req.ISBN).Count(&count).Error; err != nil {
		return nil, apperrors.FromDB(err, "check isbn")
	}
	if count > 0 {
		return nil, apperrors.Conflict("a book with ISBN %s already exists", req.ISBN)
	}

	book := &models.Book{
		Title:           req.Title,
		ISBN:            req.ISBN,
		Description:     req.Description,
		Price:           req.Price,
		StockQuantity:   req.StockQuantity,
		PublicationYear: req.PublicationYear,
		AuthorID:        req.AuthorID,
		SupplierID:      req.SupplierID,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return apperrors.FromDB(err, "create book")
		}

		for _, genreID := range req.GenreIDs {
			link := models.BookGenre{BookID: book.ID, GenreID: genreID}
			if err := tx.Create(&link).Error; err != nil {
				return apperrors.FromDB(err, "link genre")
			}
		}

		history := models.PriceHistory{
			BookID:        book.ID,
			Price:         req.Price,
			EffectiveFrom: time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperrors.FromDB(err, "open price history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"book_id": book.ID,
		"isbn":    book.ISBN,
		"genres":  len(req.GenreIDs),
	}).Info("Book created")
	return book, nil
}

// AddGenreToBook links an existing book to an existing genre. A
// duplicate (book, genre) pair is rejected and leaves the table
// unchanged.
func (s *CatalogService) AddGenreToBook(bookID, genreID uint) error {
	if err := s.checkExists(&models.Book{}, bookID, "book"); err != nil {
		return err
	}
	if err := s.checkExists(&models.Genre{}, genreID, "genre"); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.BookGenre{}).
		Where("book_id = ? AND genre_id = ?", bookID, genreID).
		Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "check genre link")
	}
	if count > 0 {
		return apperrors.Conflict("book %d is already linked to genre %d", bookID, genreID)
	}

	link := models.BookGenre{BookID: bookID, GenreID: genreID}
	if err := s.db.Create(&link).Error; err != nil {
		return apperrors.FromDB(err, "link genre")
	}
	return nil
}

// ChangeBookPrice updates the current price and rolls the price
// history: the open row is closed and a new open row starts now.
func (s *CatalogService) ChangeBookPrice(bookID uint, newPrice float64) (*models.Book, error) {
	if newPrice < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}

	var book models.Book
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("book %d not found", bookID)
			}
			return apperrors.FromDB(err, "load book")
		}

		now := time.Now()
		if err := tx.Model(&models.PriceHistory{}).
			Where("book_id = ? AND effective_to IS NULL", bookID).
			Update("effective_to", now).Error; err != nil {
			return apperrors.FromDB(err, "close price history")
		}

		history := models.PriceHistory{BookID: bookID, Price: newPrice, EffectiveFrom: now}
		if err := tx.Create(&history).Error; err != nil {
			return apperrors.FromDB(err, "open price history")
		}

		if err := tx.Model(&book).Update("price", newPrice).Error; err != nil {
			return apperrors.FromDB(err, "update price")
		}
		book.Price = newPrice
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"book_id": bookID, "price": newPrice}).Info("Book price changed")
	return &book, nil
}

func (s *CatalogService) GetAuthor(id uint) (*models.Author, error) {
	var author models.Author
	if err := s.db.First(&author, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("author %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load author")
	}
	return &author, nil
}

func (s *CatalogService) GetGenre(id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := s.db.First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("genre %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load genre")
	}
	return &genre, nil
}

func (s *CatalogService) GetSupplier(id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("supplier %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load supplier")
	}
	return &supplier, nil
}

func (s *CatalogService) GetBook(id uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("book %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load book")
	}
	return &book, nil
}

// FindBookWithDetails returns a book with its author, supplier, genres,
// price history and reviews eagerly loaded.
func (s *CatalogService) FindBookWithDetails(id uint) (*models.Book, error) {
	var book models.Book
	err := s.db.
		Preload("Author").
		Preload("Supplier").
		Preload("Genres").
		Preload("PriceHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("effective_from ASC")
		}).
		Preload("Reviews").
		First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("book %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load book")
	}
	return &book, nil
}

// FindBooksByGenre returns every book linked to the genre. A missing
// genre is an error; a genre with no books returns an empty slice.
func (s *CatalogService) FindBooksByGenre(genreID uint) ([]models.Book, error) {
	if err := s.checkExists(&models.Genre{}, genreID, "genre"); err != nil {
		return nil, err
	}

	var books []models.Book
	err := s.db.
		Joins("JOIN book_genre ON book_genre.book_id = books.id").
		Where("book_genre.genre_id = ?", genreID).
		Find(&books).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "find books by genre")
	}
	return books, nil
}

func (s *CatalogService) GetBooksByAuthor(authorID uint) ([]models.Book, error) {
	if err := s.checkExists(&models.Author{}, authorID, "author"); err != nil {
		return nil, err
	}

	var books []models.Book
	if err := s.db.Where("author_id = ?", authorID).Find(&books).Error; err != nil {
		return nil, apperrors.FromDB(err, "find books by author")
	}
	return books, nil
}

func (s *CatalogService) GetBooksBySupplier(supplierID uint) ([]models.Book, error) {
	if err := s.checkExists(&models.Supplier{}, supplierID, "supplier"); err != nil {
		return nil, err
	}

	var books []models.Book
	if err := s.db.Where("supplier_id = ?", supplierID).Find(&books).Error; err != nil {
		return nil, apperrors.FromDB(err, "find books by supplier")
	}
	return books, nil
}

func (s *CatalogService) ListBooks(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Book{})
	if params.Search != "" {
		query = query.Where("title LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.FromDB(err, "count books")
	}

	var books []models.Book
	query = utils.ApplySort(query, params, []string{"created_at", "title", "price", "publication_year"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&books).Error; err != nil {
		return nil, apperrors.FromDB(err, "list books")
	}

	result := utils.CreatePaginationResult(books, total, params)
	return &result, nil
}

func (s *CatalogService) ListAuthors() ([]models.Author, error) {
	var authors []models.Author
	if err := s.db.Order("name ASC").Find(&authors).Error; err != nil {
		return nil, apperrors.FromDB(err, "list authors")
	}
	return authors, nil
}

func (s *CatalogService) ListGenres() ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.db.Order("name ASC").Find(&genres).Error; err != nil {
		return nil, apperrors.FromDB(err, "list genres")
	}
	return genres, nil
}

func (s *CatalogService) ListSuppliers() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := s.db.Order("company_name ASC").Find(&suppliers).Error; err != nil {
		return nil, apperrors.FromDB(err, "list suppliers")
	}
	return suppliers, nil
}

// DeleteAuthor is a restrict delete: it is rejected while any book
// references the author.
func (s *CatalogService) DeleteAuthor(id uint) error {
	if err := s.checkExists(&models.Author{}, id, "author"); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Book{}).Where("author_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "count author books")
	}
	if count > 0 {
		return apperrors.Conflict("author %d still has %d books", id, count)
	}

	if err := s.db.Delete(&models.Author{}, id).Error; err != nil {
		return apperrors.FromDB(err, "delete author")
	}
	return nil
}

// DeleteSupplier is a restrict delete, same rule as DeleteAuthor.
func (s *CatalogService) DeleteSupplier(id uint) error {
	if err := s.checkExists(&models.Supplier{}, id, "supplier"); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Book{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "count supplier books")
	}
	if count > 0 {
		return apperrors.Conflict("supplier %d still has %d books", id, count)
	}

	if err := s.db.Delete(&models.Supplier{}, id).Error; err != nil {
		return apperrors.FromDB(err, "delete supplier")
	}
	return nil
}

// DeleteGenre removes the genre and its book links. Books survive
// unlabelled.
func (s *CatalogService) DeleteGenre(id uint) error {
	if err := s.checkExists(&models.Genre{}, id, "genre"); err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&models.BookGenre{}).Error; err != nil {
			return apperrors.FromDB(err, "delete genre links")
		}
		if err := tx.Delete(&models.Genre{}, id).Error; err != nil {
			return apperrors.FromDB(err, "delete genre")
		}
		return nil
	})
}

// DeleteBook cascades to the book's genre links, price history and
// reviews in one transaction. It is rejected while order items still
// reference the book, so order history stays resolvable.
func (s *CatalogService) DeleteBook(id uint) error {
	if err := s.checkExists(&models.Book{}, id, "book"); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.OrderItem{}).Where("book_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "count order items")
	}
	if count > 0 {
		return apperrors.Conflict("book %d is referenced by %d order items", id, count)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&models.BookGenre{}).Error; err != nil {
			return apperrors.FromDB(err, "delete genre links")
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.PriceHistory{}).Error; err != nil {
			return apperrors.FromDB(err, "delete price history")
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookReview{}).Error; err != nil {
			return apperrors.FromDB(err, "delete reviews")
		}
		if err := tx.Delete(&models.Book{}, id).Error; err != nil {
			return apperrors.FromDB(err, "delete book")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("book_id", id).Info("Book deleted with dependents")
	return nil
}

func (s *CatalogService) checkExists(model interface{}, id uint, name string) error {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "check "+name)
	}
	if count == 0 {
		return apperrors.NotFound("%s %d not found", name, id)
	}
	return nil
}
