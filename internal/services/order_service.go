// internal/services/order_service.go
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

// OrderService owns orders, their items and the append-only status
// history.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

type OrderItemRequest struct {
	BookID   uint `json:"book_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gte=1"`
}

type CreateOrderRequest struct {
	ClientID        uint               `json:"client_id" validate:"required"`
	EmployeeID      uint               `json:"employee_id" validate:"required"`
	DeliveryAddress string             `json:"delivery_address" validate:"max=500"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder inserts the order, all its items and the initial status
// history row atomically. Each item's unit price snapshots the book's
// current price; stock is checked and decremented in the same
// transaction.
func (s *OrderService) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	if err := s.checkExists(&models.Client{}, req.ClientID, "client"); err != nil {
		return nil, err
	}
	if err := s.checkExists(&models.Employee{}, req.EmployeeID, "employee"); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		ClientID:        req.ClientID,
		EmployeeID:      req.EmployeeID,
		OrderDate:       now,
		Status:          models.OrderStatusCreated,
		DeliveryAddress: req.DeliveryAddress,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		// Price and stock are read inside the transaction so a
		// concurrent price change cannot split an order between two
		// prices.
		var total float64
		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			var book models.Book
			if err := tx.First(&book, item.BookID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("book %d not found", item.BookID)
				}
				return apperrors.FromDB(err, "load book")
			}

			if book.StockQuantity < item.Quantity {
				return apperrors.Conflict("book %d has %d in stock, %d requested",
					book.ID, book.StockQuantity, item.Quantity)
			}
			if err := tx.Model(&book).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity)).Error; err != nil {
				return apperrors.FromDB(err, "decrement stock")
			}

			items = append(items, models.OrderItem{
				BookID:    book.ID,
				Quantity:  item.Quantity,
				UnitPrice: book.Price,
			})
			total += float64(item.Quantity) * book.Price
		}

		order.TotalAmount = total
		if err := tx.Create(order).Error; err != nil {
			return apperrors.FromDB(err, "create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return apperrors.FromDB(err, "create order items")
		}
		order.Items = items

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    models.OrderStatusCreated,
			ChangedAt: now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperrors.FromDB(err, "create status history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.TotalAmount,
	}).Info("Order created")
	return order, nil
}

// ChangeOrderStatus appends a history row and updates the order's
// status in one transaction. Prior history rows are never touched.
func (s *OrderService) ChangeOrderStatus(orderID uint, newStatus models.OrderStatus, comment string) (*models.Order, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.Validation("unknown order status %q", newStatus)
	}

	var order models.Order
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order %d not found", orderID)
			}
			return apperrors.FromDB(err, "load order")
		}

		history := models.OrderStatusHistory{
			OrderID:   orderID,
			Status:    newStatus,
			Comment:   comment,
			ChangedAt: time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperrors.FromDB(err, "append status history")
		}

		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return apperrors.FromDB(err, "update order status")
		}
		order.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order_id": orderID, "status": newStatus}).Info("Order status changed")
	return &order, nil
}

func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load order")
	}
	return &order, nil
}

// GetOrderWithDetails returns the order with client, employee, items
// (and their books) and the full status history in change order.
func (s *OrderService) GetOrderWithDetails(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Client").
		Preload("Employee").
		Preload("Items").
		Preload("Items.Book").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC, id ASC")
		}).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load order")
	}
	return &order, nil
}

// GetOrdersByClient returns the client's orders with items. A missing
// client is an error; a client with no orders returns an empty slice.
func (s *OrderService) GetOrdersByClient(clientID uint) ([]models.Order, error) {
	if err := s.checkExists(&models.Client{}, clientID, "client"); err != nil {
		return nil, err
	}

	var orders []models.Order
	err := s.db.
		Preload("Items").
		Preload("Items.Book").
		Where("client_id = ?", clientID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "find orders by client")
	}
	return orders, nil
}

// ListOrders pages over orders, optionally bounded by order date. The
// range scan is what the order_date index exists for.
func (s *OrderService) ListOrders(from, to *time.Time, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Order{})
	if from != nil {
		query = query.Where("order_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("order_date <= ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.FromDB(err, "count orders")
	}

	var orders []models.Order
	query = utils.ApplySort(query, params, []string{"created_at", "order_date", "total_amount", "status"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&orders).Error; err != nil {
		return nil, apperrors.FromDB(err, "list orders")
	}

	result := utils.CreatePaginationResult(orders, total, params)
	return &result, nil
}

// DeleteOrder cascades to the order's items and status history. Stock
// is not re-credited: deletion is administrative cleanup, not a
// cancellation flow.
func (s *OrderService) DeleteOrder(id uint) error {
	if err := s.checkExists(&models.Order{}, id, "order"); err != nil {
		return err
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return apperrors.FromDB(err, "delete order items")
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderStatusHistory{}).Error; err != nil {
			return apperrors.FromDB(err, "delete status history")
		}
		if err := tx.Delete(&models.Order{}, id).Error; err != nil {
			return apperrors.FromDB(err, "delete order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("order_id", id).Info("Order deleted with dependents")
	return nil
}

func (s *OrderService) checkExists(model interface{}, id uint, name string) error {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "check "+name)
	}
	if count == 0 {
		return apperrors.NotFound("%s %d not found", name, id)
	}
	return nil
}
