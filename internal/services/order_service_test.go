// internal/services/order_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"bookstore-backend/internal/apperrors"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/services"
	"bookstore-backend/internal/utils"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	catalog   *services.CatalogService
	customers *services.CustomerService
	orders    *services.OrderService
	client    *models.Client
	employee  *models.Employee
	bookA     *models.Book
	bookB     *models.Book
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.catalog = services.NewCatalogService(suite.db)
	suite.customers = services.NewCustomerService(suite.db)
	suite.orders = services.NewOrderService(suite.db)

	author, err := suite.catalog.CreateAuthor(&services.CreateAuthorRequest{Name: "Leo Tolstoy"})
	suite.Require().NoError(err)
	supplier, err := suite.catalog.CreateSupplier(&services.CreateSupplierRequest{CompanyName: "Book House"})
	suite.Require().NoError(err)

	suite.bookA, err = suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "War and Peace",
		ISBN:            "9780140447934",
		Price:           999.99,
		StockQuantity:   10,
		PublicationYear: 1869,
		AuthorID:        author.ID,
		SupplierID:      supplier.ID,
	})
	suite.Require().NoError(err)

	suite.bookB, err = suite.catalog.CreateBookWithGenres(&services.CreateBookRequest{
		Title:           "Anna Karenina",
		ISBN:            "9780140449174",
		Price:           499.50,
		StockQuantity:   5,
		PublicationYear: 1878,
		AuthorID:        author.ID,
		SupplierID:      supplier.ID,
	})
	suite.Require().NoError(err)

	suite.client, err = suite.customers.CreateClient(&services.CreateClientRequest{
		Name:  "Ivan Petrov",
		Email: "ivan@example.com",
	})
	suite.Require().NoError(err)

	suite.employee, err = suite.customers.CreateEmployee(&services.CreateEmployeeRequest{
		Name:     "Maria Sidorova",
		Position: "Sales",
	})
	suite.Require().NoError(err)
}

func (suite *OrderServiceTestSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var count int64
	db := suite.db.Model(model)
	if query != "" {
		db = db.Where(query, args...)
	}
	suite.Require().NoError(db.Count(&count).Error)
	return count
}

func (suite *OrderServiceTestSuite) stockOf(bookID uint) int {
	var book models.Book
	suite.Require().NoError(suite.db.First(&book, bookID).Error)
	return book.StockQuantity
}

func (suite *OrderServiceTestSuite) TestCreateOrderComputesTotalAndHistory() {
	order, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items: []services.OrderItemRequest{
			{BookID: suite.bookA.ID, Quantity: 2},
			{BookID: suite.bookB.ID, Quantity: 1},
		},
	})
	suite.Require().NoError(err)

	suite.InDelta(2499.48, order.TotalAmount, 0.001)
	suite.Equal(models.OrderStatusCreated, order.Status)
	suite.EqualValues(2, suite.count(&models.OrderItem{}, "order_id = ?", order.ID))

	var history []models.OrderStatusHistory
	suite.Require().NoError(suite.db.Where("order_id = ?", order.ID).Find(&history).Error)
	suite.Require().Len(history, 1)
	suite.Equal(models.OrderStatusCreated, history[0].Status)

	// Stock was decremented in the same transaction
	suite.Equal(8, suite.stockOf(suite.bookA.ID))
	suite.Equal(4, suite.stockOf(suite.bookB.ID))
}

func (suite *OrderServiceTestSuite) TestCreateOrderUnknownBookRollsBack() {
	_, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items: []services.OrderItemRequest{
			{BookID: suite.bookA.ID, Quantity: 2},
			{BookID: 9999, Quantity: 1},
		},
	})
	suite.True(apperrors.IsNotFound(err))

	suite.EqualValues(0, suite.count(&models.Order{}, ""))
	suite.EqualValues(0, suite.count(&models.OrderItem{}, ""))
	suite.EqualValues(0, suite.count(&models.OrderStatusHistory{}, ""))
	// The first item's stock decrement was rolled back too
	suite.Equal(10, suite.stockOf(suite.bookA.ID))
}

func (suite *OrderServiceTestSuite) TestCreateOrderInsufficientStock() {
	_, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items: []services.OrderItemRequest{
			{BookID: suite.bookB.ID, Quantity: 6},
		},
	})
	suite.True(apperrors.IsConflict(err))
	suite.EqualValues(0, suite.count(&models.Order{}, ""))
	suite.Equal(5, suite.stockOf(suite.bookB.ID))
}

func (suite *OrderServiceTestSuite) TestCreateOrderValidation() {
	_, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
	})
	suite.True(apperrors.IsValidation(err), "no items")

	_, err = suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 0}},
	})
	suite.True(apperrors.IsValidation(err), "zero quantity")

	_, err = suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   9999,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 1}},
	})
	suite.True(apperrors.IsNotFound(err), "unknown client")
}

func (suite *OrderServiceTestSuite) TestUnitPriceSurvivesPriceChange() {
	order, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	_, err = suite.catalog.ChangeBookPrice(suite.bookA.ID, 899.99)
	suite.Require().NoError(err)

	var item models.OrderItem
	suite.Require().NoError(suite.db.Where("order_id = ?", order.ID).First(&item).Error)
	suite.InDelta(999.99, item.UnitPrice, 0.001, "snapshot price is independent of later changes")

	reloaded, err := suite.orders.GetOrder(order.ID)
	suite.Require().NoError(err)
	suite.InDelta(999.99, reloaded.TotalAmount, 0.001)
}

func (suite *OrderServiceTestSuite) TestChangeOrderStatusAppendsHistory() {
	order, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	updated, err := suite.orders.ChangeOrderStatus(order.ID, models.OrderStatusShipped, "handed to courier")
	suite.Require().NoError(err)
	suite.Equal(models.OrderStatusShipped, updated.Status)

	var history []models.OrderStatusHistory
	suite.Require().NoError(suite.db.
		Where("order_id = ?", order.ID).
		Order("changed_at ASC, id ASC").
		Find(&history).Error)
	suite.Require().Len(history, 2, "exactly one row appended")
	suite.Equal(models.OrderStatusCreated, history[0].Status, "earlier rows untouched")
	suite.Equal(models.OrderStatusShipped, history[1].Status)
	suite.Equal("handed to courier", history[1].Comment)

	_, err = suite.orders.ChangeOrderStatus(order.ID, "Teleported", "")
	suite.True(apperrors.IsValidation(err))
	_, err = suite.orders.ChangeOrderStatus(9999, models.OrderStatusPaid, "")
	suite.True(apperrors.IsNotFound(err))
}

func (suite *OrderServiceTestSuite) TestGetOrderWithDetails() {
	order, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 2}},
	})
	suite.Require().NoError(err)

	detailed, err := suite.orders.GetOrderWithDetails(order.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(detailed.Client)
	suite.Equal("Ivan Petrov", detailed.Client.Name)
	suite.Require().NotNil(detailed.Employee)
	suite.Require().Len(detailed.Items, 1)
	suite.Require().NotNil(detailed.Items[0].Book)
	suite.Equal("War and Peace", detailed.Items[0].Book.Title)
	suite.Len(detailed.StatusHistory, 1)
}

func (suite *OrderServiceTestSuite) TestGetOrdersByClient() {
	_, err := suite.orders.GetOrdersByClient(9999)
	suite.True(apperrors.IsNotFound(err))

	orders, err := suite.orders.GetOrdersByClient(suite.client.ID)
	suite.Require().NoError(err)
	suite.Empty(orders)

	_, err = suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	orders, err = suite.orders.GetOrdersByClient(suite.client.ID)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Len(orders[0].Items, 1)
}

func (suite *OrderServiceTestSuite) TestListOrders() {
	_, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	result, err := suite.orders.ListOrders(nil, nil, utils.PaginationParams{
		Page:  1,
		Limit: 20,
		Sort:  "order_date",
		Order: "desc",
	})
	suite.Require().NoError(err)
	suite.EqualValues(1, result.Total)
}

func (suite *OrderServiceTestSuite) TestDeleteOrderCascades() {
	order, err := suite.orders.CreateOrder(&services.CreateOrderRequest{
		ClientID:   suite.client.ID,
		EmployeeID: suite.employee.ID,
		Items:      []services.OrderItemRequest{{BookID: suite.bookA.ID, Quantity: 1}},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.orders.DeleteOrder(order.ID))

	suite.EqualValues(0, suite.count(&models.Order{}, ""))
	suite.EqualValues(0, suite.count(&models.OrderItem{}, "order_id = ?", order.ID))
	suite.EqualValues(0, suite.count(&models.OrderStatusHistory{}, "order_id = ?", order.ID))
	// The ordered book itself survives
	suite.EqualValues(1, suite.count(&models.Book{}, "id = ?", suite.bookA.ID))
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
