// cmd/demo/main.go
//
// Console walkthrough of the persistence layer: seeds reference data,
// creates a book with genre links, places an order, traverses the
// relationships, changes a price and an order status, and finally
// deletes the order.
package main

import (
	"github.com/sirupsen/logrus"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/database"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	catalog := services.NewCatalogService(db)
	customers := services.NewCustomerService(db)
	orders := services.NewOrderService(db)

	// Reference data
	author, err := catalog.CreateAuthor(&services.CreateAuthorRequest{
		Name:    "Leo Tolstoy",
		Country: "Russia",
	})
	if err != nil {
		logrus.WithError(err).Fatal("create author")
	}

	genre, err := catalog.CreateGenre(&services.CreateGenreRequest{
		Name:        "Novel",
		Description: "Long-form literary fiction",
	})
	if err != nil {
		logrus.WithError(err).Fatal("create genre")
	}

	supplier, err := catalog.CreateSupplier(&services.CreateSupplierRequest{
		CompanyName: "Book House",
	})
	if err != nil {
		logrus.WithError(err).Fatal("create supplier")
	}

	// Book plus genre link as one atomic write
	book, err := catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "War and Peace",
		ISBN:            "9780140447934",
		Price:           999.99,
		StockQuantity:   10,
		PublicationYear: 1869,
		AuthorID:        author.ID,
		SupplierID:      supplier.ID,
		GenreIDs:        []uint{genre.ID},
	})
	if err != nil {
		logrus.WithError(err).Fatal("create book")
	}

	client, err := customers.CreateClient(&services.CreateClientRequest{
		Name:  "Ivan Petrov",
		Email: "ivan.petrov@example.com",
	})
	if err != nil {
		logrus.WithError(err).Fatal("create client")
	}

	employee, err := customers.CreateEmployee(&services.CreateEmployeeRequest{
		Name:     "Maria Sidorova",
		Position: "Sales",
	})
	if err != nil {
		logrus.WithError(err).Fatal("create employee")
	}

	// Order with a snapshot of the book's current price
	order, err := orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   client.ID,
		EmployeeID: employee.ID,
		Items: []services.OrderItemRequest{
			{BookID: book.ID, Quantity: 2},
		},
	})
	if err != nil {
		logrus.WithError(err).Fatal("create order")
	}
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.TotalAmount,
	}).Info("Order placed")

	// Relationship traversal
	detailed, err := catalog.FindBookWithDetails(book.ID)
	if err != nil {
		logrus.WithError(err).Fatal("book details")
	}
	logrus.WithFields(logrus.Fields{
		"title":  detailed.Title,
		"author": detailed.Author.Name,
		"genres": len(detailed.Genres),
	}).Info("Book with details")

	authorBooks, err := catalog.GetBooksByAuthor(author.ID)
	if err != nil {
		logrus.WithError(err).Fatal("books by author")
	}
	for _, b := range authorBooks {
		logrus.WithField("title", b.Title).Info("Book by author")
	}

	clientOrders, err := orders.GetOrdersByClient(client.ID)
	if err != nil {
		logrus.WithError(err).Fatal("orders by client")
	}
	for _, o := range clientOrders {
		for _, item := range o.Items {
			logrus.WithFields(logrus.Fields{
				"order_id": o.ID,
				"book":     item.Book.Title,
				"quantity": item.Quantity,
			}).Info("Order item")
		}
	}

	// Price change rolls the history; the existing order keeps its
	// snapshot price.
	if _, err := catalog.ChangeBookPrice(book.ID, 899.99); err != nil {
		logrus.WithError(err).Fatal("change price")
	}

	if _, err := orders.ChangeOrderStatus(order.ID, models.OrderStatusShipped, "handed to courier"); err != nil {
		logrus.WithError(err).Fatal("change order status")
	}

	// Deleting the order removes its items and status history with it
	if err := orders.DeleteOrder(order.ID); err != nil {
		logrus.WithError(err).Fatal("delete order")
	}

	logrus.Info("Demo completed")
}
