// internal/handlers/catalog.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/services"
	"bookstore-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// POST /authors
func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req services.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	author, err := h.catalogService.CreateAuthor(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, author)
}

// GET /authors
func (h *CatalogHandler) GetAuthors(c *gin.Context) {
	authors, err := h.catalogService.ListAuthors()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, authors)
}

// GET /authors/:id
func (h *CatalogHandler) GetAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	author, err := h.catalogService.GetAuthor(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, author)
}

// GET /authors/:id/books
func (h *CatalogHandler) GetAuthorBooks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	books, err := h.catalogService.GetBooksByAuthor(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, books)
}

// DELETE /authors/:id
func (h *CatalogHandler) DeleteAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteAuthor(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// POST /genres
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req services.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	genre, err := h.catalogService.CreateGenre(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, genre)
}

// GET /genres
func (h *CatalogHandler) GetGenres(c *gin.Context) {
	genres, err := h.catalogService.ListGenres()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, genres)
}

// GET /genres/:id/books
func (h *CatalogHandler) GetGenreBooks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	books, err := h.catalogService.FindBooksByGenre(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, books)
}

// DELETE /genres/:id
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteGenre(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// POST /suppliers
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req services.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	supplier, err := h.catalogService.CreateSupplier(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, supplier)
}

// GET /suppliers
func (h *CatalogHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.catalogService.ListSuppliers()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, suppliers)
}

// GET /suppliers/:id/books
func (h *CatalogHandler) GetSupplierBooks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	books, err := h.catalogService.GetBooksBySupplier(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, books)
}

// DELETE /suppliers/:id
func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSupplier(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// POST /books
func (h *CatalogHandler) CreateBook(c *gin.Context) {
	var req services.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	book, err := h.catalogService.CreateBookWithGenres(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, book)
}

// GET /books
func (h *CatalogHandler) GetBooks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.catalogService.ListBooks(params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponseWithMeta(c, result.Data, result)
}

// GET /books/:id
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	book, err := h.catalogService.FindBookWithDetails(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, book)
}

// POST /books/:id/genres/:genreId
func (h *CatalogHandler) AddGenreToBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	genreID, err := strconv.ParseUint(c.Param("genreId"), 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid genre id", nil)
		return
	}

	if err := h.catalogService.AddGenreToBook(id, uint(genreID)); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, gin.H{"book_id": id, "genre_id": genreID})
}

// PUT /books/:id/price
func (h *CatalogHandler) ChangeBookPrice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Price float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	book, err := h.catalogService.ChangeBookPrice(id, req.Price)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, book)
}

// DELETE /books/:id
func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteBook(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid id", nil)
		return 0, false
	}
	return uint(id), true
}
