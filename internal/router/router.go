// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/handlers"
	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/services"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	catalogService := services.NewCatalogService(db)
	customerService := services.NewCustomerService(db)
	orderService := services.NewOrderService(db)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	customerHandler := handlers.NewCustomerHandler(customerService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		authors := v1.Group("/authors")
		{
			authors.POST("", catalogHandler.CreateAuthor)
			authors.GET("", catalogHandler.GetAuthors)
			authors.GET("/:id", catalogHandler.GetAuthor)
			authors.GET("/:id/books", catalogHandler.GetAuthorBooks)
			authors.DELETE("/:id", catalogHandler.DeleteAuthor)
		}

		genres := v1.Group("/genres")
		{
			genres.POST("", catalogHandler.CreateGenre)
			genres.GET("", catalogHandler.GetGenres)
			genres.GET("/:id/books", catalogHandler.GetGenreBooks)
			genres.DELETE("/:id", catalogHandler.DeleteGenre)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", catalogHandler.CreateSupplier)
			suppliers.GET("", catalogHandler.GetSuppliers)
			suppliers.GET("/:id/books", catalogHandler.GetSupplierBooks)
			suppliers.DELETE("/:id", catalogHandler.DeleteSupplier)
		}

		books := v1.Group("/books")
		{
			books.POST("", catalogHandler.CreateBook)
			books.GET("", catalogHandler.GetBooks)
			books.GET("/:id", catalogHandler.GetBook)
			books.POST("/:id/genres/:genreId", catalogHandler.AddGenreToBook)
			books.PUT("/:id/price", catalogHandler.ChangeBookPrice)
			books.GET("/:id/reviews", customerHandler.GetBookReviews)
			books.DELETE("/:id", catalogHandler.DeleteBook)
		}

		clients := v1.Group("/clients")
		{
			clients.POST("", customerHandler.CreateClient)
			clients.GET("", customerHandler.GetClients)
			clients.GET("/:id", customerHandler.GetClient)
			clients.GET("/:id/orders", customerHandler.GetClientOrders)
			clients.DELETE("/:id", customerHandler.DeleteClient)
		}

		employees := v1.Group("/employees")
		{
			employees.POST("", customerHandler.CreateEmployee)
			employees.GET("", customerHandler.GetEmployees)
			employees.GET("/:id", customerHandler.GetEmployee)
			employees.DELETE("/:id", customerHandler.DeleteEmployee)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.ChangeOrderStatus)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}

		v1.POST("/reviews", customerHandler.AddReview)
	}

	return r
}
