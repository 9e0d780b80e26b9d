// internal/services/catalog_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"bookstore-backend/internal/apperrors"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/services"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	catalog  *services.CatalogService
	author   *models.Author
	supplier *models.Supplier
	novel    *models.Genre
	scifi    *models.Genre
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.catalog = services.NewCatalogService(suite.db)

	var err error
	suite.author, err = suite.catalog.CreateAuthor(&services.CreateAuthorRequest{
		Name:    "Leo Tolstoy",
		Country: "Russia",
	})
	suite.Require().NoError(err)

	suite.supplier, err = suite.catalog.CreateSupplier(&services.CreateSupplierRequest{
		CompanyName: "Book House",
	})
	suite.Require().NoError(err)

	suite.novel, err = suite.catalog.CreateGenre(&services.CreateGenreRequest{Name: "Novel"})
	suite.Require().NoError(err)
	suite.scifi, err = suite.catalog.CreateGenre(&services.CreateGenreRequest{Name: "Science Fiction"})
	suite.Require().NoError(err)
}

func (suite *CatalogServiceTestSuite) createBook(isbn string, genreIDs ...uint) *models.Book {
	book, err := suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "War and Peace",
		ISBN:            isbn,
		Price:           999.99,
		StockQuantity:   10,
		PublicationYear: 1869,
		AuthorID:        suite.author.ID,
		SupplierID:      suite.supplier.ID,
		GenreIDs:        genreIDs,
	})
	suite.Require().NoError(err)
	return book
}

func (suite *CatalogServiceTestSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var count int64
	db := suite.db.Model(model)
	if query != "" {
		db = db.Where(query, args...)
	}
	suite.Require().NoError(db.Count(&count).Error)
	return count
}

func (suite *CatalogServiceTestSuite) TestCreateBookWithGenres() {
	book := suite.createBook("9780140447934", suite.novel.ID, suite.scifi.ID)

	suite.NotZero(book.ID)
	suite.EqualValues(2, suite.count(&models.BookGenre{}, "book_id = ?", book.ID))

	// The opening price-history row starts at the creation price and
	// is still open.
	var history []models.PriceHistory
	suite.Require().NoError(suite.db.Where("book_id = ?", book.ID).Find(&history).Error)
	suite.Require().Len(history, 1)
	suite.InDelta(999.99, history[0].Price, 0.001)
	suite.Nil(history[0].EffectiveTo)
}

func (suite *CatalogServiceTestSuite) TestDuplicateISBNRejected() {
	suite.createBook("9780140447934")

	_, err := suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "Another Edition",
		ISBN:            "9780140447934",
		Price:           10,
		PublicationYear: 2000,
		AuthorID:        suite.author.ID,
		SupplierID:      suite.supplier.ID,
	})
	suite.True(apperrors.IsConflict(err))
	suite.EqualValues(1, suite.count(&models.Book{}, ""))
}

func (suite *CatalogServiceTestSuite) TestUnknownAuthorLeavesNothingBehind() {
	_, err := suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "Orphan",
		ISBN:            "9780000000001",
		Price:           10,
		PublicationYear: 2000,
		AuthorID:        9999,
		SupplierID:      suite.supplier.ID,
		GenreIDs:        []uint{suite.novel.ID},
	})
	suite.True(apperrors.IsNotFound(err))
	suite.EqualValues(0, suite.count(&models.Book{}, ""))
	suite.EqualValues(0, suite.count(&models.BookGenre{}, ""))
}

func (suite *CatalogServiceTestSuite) TestUnknownGenreLeavesNothingBehind() {
	_, err := suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "Orphan",
		ISBN:            "9780000000001",
		Price:           10,
		PublicationYear: 2000,
		AuthorID:        suite.author.ID,
		SupplierID:      suite.supplier.ID,
		GenreIDs:        []uint{suite.novel.ID, 9999},
	})
	suite.True(apperrors.IsNotFound(err))
	suite.EqualValues(0, suite.count(&models.Book{}, ""))
	suite.EqualValues(0, suite.count(&models.BookGenre{}, ""))
}

func (suite *CatalogServiceTestSuite) TestBookValidation() {
	_, err := suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		ISBN:            "9780000000001",
		Price:           10,
		PublicationYear: 2000,
		AuthorID:        suite.author.ID,
		SupplierID:      suite.supplier.ID,
	})
	suite.True(apperrors.IsValidation(err), "missing title")

	_, err = suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "Typo Year",
		ISBN:            "9780000000001",
		Price:           10,
		PublicationYear: 199,
		AuthorID:        suite.author.ID,
		SupplierID:      suite.supplier.ID,
	})
	suite.True(apperrors.IsValidation(err), "publication year out of range")

	_, err = suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "Negative",
		ISBN:            "9780000000001",
		Price:           -1,
		PublicationYear: 2000,
		AuthorID:        suite.author.ID,
		SupplierID:      suite.supplier.ID,
	})
	suite.True(apperrors.IsValidation(err), "negative price")
}

func (suite *CatalogServiceTestSuite) TestAddGenreToBook() {
	book := suite.createBook("9780140447934")

	suite.NoError(suite.catalog.AddGenreToBook(book.ID, suite.novel.ID))

	// The duplicate pair is rejected and the table stays unchanged.
	err := suite.catalog.AddGenreToBook(book.ID, suite.novel.ID)
	suite.True(apperrors.IsConflict(err))
	suite.EqualValues(1, suite.count(&models.BookGenre{}, ""))

	suite.True(apperrors.IsNotFound(suite.catalog.AddGenreToBook(9999, suite.novel.ID)))
	suite.True(apperrors.IsNotFound(suite.catalog.AddGenreToBook(book.ID, 9999)))
}

func (suite *CatalogServiceTestSuite) TestChangeBookPriceRollsHistory() {
	book := suite.createBook("9780140447934")

	updated, err := suite.catalog.ChangeBookPrice(book.ID, 899.99)
	suite.Require().NoError(err)
	suite.InDelta(899.99, updated.Price, 0.001)

	var history []models.PriceHistory
	suite.Require().NoError(suite.db.
		Where("book_id = ?", book.ID).
		Order("effective_from ASC, id ASC").
		Find(&history).Error)
	suite.Require().Len(history, 2)
	suite.NotNil(history[0].EffectiveTo, "old row closed")
	suite.Nil(history[1].EffectiveTo, "new row open")
	suite.InDelta(899.99, history[1].Price, 0.001)

	_, err = suite.catalog.ChangeBookPrice(book.ID, -5)
	suite.True(apperrors.IsValidation(err))
	_, err = suite.catalog.ChangeBookPrice(9999, 10)
	suite.True(apperrors.IsNotFound(err))
}

func (suite *CatalogServiceTestSuite) TestFindBooksByGenre() {
	_, err := suite.catalog.FindBooksByGenre(9999)
	suite.True(apperrors.IsNotFound(err), "missing anchor is an error")

	books, err := suite.catalog.FindBooksByGenre(suite.scifi.ID)
	suite.Require().NoError(err)
	suite.Empty(books, "no match is empty, not an error")

	book := suite.createBook("9780140447934", suite.novel.ID)
	books, err = suite.catalog.FindBooksByGenre(suite.novel.ID)
	suite.Require().NoError(err)
	suite.Require().Len(books, 1)
	suite.Equal(book.ID, books[0].ID)
}

func (suite *CatalogServiceTestSuite) TestFindBookWithDetails() {
	book := suite.createBook("9780140447934", suite.novel.ID)

	detailed, err := suite.catalog.FindBookWithDetails(book.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(detailed.Author)
	suite.Equal("Leo Tolstoy", detailed.Author.Name)
	suite.Require().NotNil(detailed.Supplier)
	suite.Equal("Book House", detailed.Supplier.CompanyName)
	suite.Require().Len(detailed.Genres, 1)
	suite.Equal(suite.novel.ID, detailed.Genres[0].ID)
	suite.Len(detailed.PriceHistory, 1)

	_, err = suite.catalog.FindBookWithDetails(9999)
	suite.True(apperrors.IsNotFound(err))
}

func (suite *CatalogServiceTestSuite) TestDeleteAuthorRestrictedWhileBooksExist() {
	book := suite.createBook("9780140447934")

	err := suite.catalog.DeleteAuthor(suite.author.ID)
	suite.True(apperrors.IsConflict(err))
	suite.EqualValues(1, suite.count(&models.Author{}, "id = ?", suite.author.ID))
	suite.EqualValues(1, suite.count(&models.Book{}, "id = ?", book.ID))

	suite.Require().NoError(suite.catalog.DeleteBook(book.ID))
	suite.NoError(suite.catalog.DeleteAuthor(suite.author.ID))
}

func (suite *CatalogServiceTestSuite) TestDeleteSupplierRestrictedWhileBooksExist() {
	suite.createBook("9780140447934")

	err := suite.catalog.DeleteSupplier(suite.supplier.ID)
	suite.True(apperrors.IsConflict(err))
}

func (suite *CatalogServiceTestSuite) TestDeleteBookCascades() {
	book := suite.createBook("9780140447934", suite.novel.ID, suite.scifi.ID)

	customers := services.NewCustomerService(suite.db)
	client, err := customers.CreateClient(&services.CreateClientRequest{
		Name:  "Ivan Petrov",
		Email: "ivan@example.com",
	})
	suite.Require().NoError(err)
	_, err = customers.AddBookReview(&services.AddReviewRequest{
		BookID:   book.ID,
		ClientID: client.ID,
		Rating:   5,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.catalog.DeleteBook(book.ID))

	suite.EqualValues(0, suite.count(&models.Book{}, ""))
	suite.EqualValues(0, suite.count(&models.BookGenre{}, "book_id = ?", book.ID))
	suite.EqualValues(0, suite.count(&models.PriceHistory{}, "book_id = ?", book.ID))
	suite.EqualValues(0, suite.count(&models.BookReview{}, "book_id = ?", book.ID))
	// Genres themselves survive
	suite.EqualValues(2, suite.count(&models.Genre{}, ""))
}

func (suite *CatalogServiceTestSuite) TestDeleteGenreRemovesLinks() {
	book := suite.createBook("9780140447934", suite.novel.ID)

	suite.Require().NoError(suite.catalog.DeleteGenre(suite.novel.ID))
	suite.EqualValues(0, suite.count(&models.BookGenre{}, ""))
	suite.EqualValues(1, suite.count(&models.Book{}, "id = ?", book.ID))
}

func (suite *CatalogServiceTestSuite) TestAuthorValidation() {
	_, err := suite.catalog.CreateAuthor(&services.CreateAuthorRequest{})
	suite.True(apperrors.IsValidation(err))
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
