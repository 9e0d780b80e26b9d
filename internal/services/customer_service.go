// internal/services/customer_service.go
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

// CustomerService owns clients, employees and book reviews.
type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

type CreateClientRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Phone     string     `json:"phone" validate:"max=50"`
	Address   string     `json:"address" validate:"max=500"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

type CreateEmployeeRequest struct {
	Name     string    `json:"name" validate:"required,max=255"`
	Email    string    `json:"email" validate:"omitempty,email,max=255"`
	Phone    string    `json:"phone" validate:"max=50"`
	HireDate time.Time `json:"hire_date"`
	Position string    `json:"position" validate:"max=100"`
}

type AddReviewRequest struct {
	BookID   uint   `json:"book_id" validate:"required"`
	ClientID uint   `json:"client_id" validate:"required"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
	Comment  string `json:"comment"`
}

func (s *CustomerService) CreateClient(req *CreateClientRequest) (*models.Client, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	var count int64
	if err := s.db.Model(&models.Client{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, apperrors.FromDB(err, "check email")
	}
	if count > 0 {
		return nil, apperrors.Conflict("a client with email %s already exists", req.Email)
	}

	client := &models.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		BirthDate: req.BirthDate,
	}
	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.FromDB(err, "create client")
	}
	return client, nil
}

func (s *CustomerService) CreateEmployee(req *CreateEmployeeRequest) (*models.Employee, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	hireDate := req.HireDate
	if hireDate.IsZero() {
		hireDate = time.Now()
	}

	employee := &models.Employee{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		HireDate: hireDate,
		Position: req.Position,
	}
	if err := s.db.Create(employee).Error; err != nil {
		return nil, apperrors.FromDB(err, "create employee")
	}
	return employee, nil
}

// AddBookReview records a client's review of a book. The creation
// timestamp is assigned here, not by a store default.
func (s *CustomerService) AddBookReview(req *AddReviewRequest) (*models.BookReview, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	if err := s.checkExists(&models.Book{}, req.BookID, "book"); err != nil {
		return nil, err
	}
	if err := s.checkExists(&models.Client{}, req.ClientID, "client"); err != nil {
		return nil, err
	}

	review := &models.BookReview{
		BookID:    req.BookID,
		ClientID:  req.ClientID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, apperrors.FromDB(err, "create review")
	}
	return review, nil
}

func (s *CustomerService) GetClient(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("client %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load client")
	}
	return &client, nil
}

func (s *CustomerService) GetEmployee(id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("employee %d not found", id)
		}
		return nil, apperrors.FromDB(err, "load employee")
	}
	return &employee, nil
}

func (s *CustomerService) ListClients() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("name ASC").Find(&clients).Error; err != nil {
		return nil, apperrors.FromDB(err, "list clients")
	}
	return clients, nil
}

func (s *CustomerService) ListEmployees() ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db.Order("name ASC").Find(&employees).Error; err != nil {
		return nil, apperrors.FromDB(err, "list employees")
	}
	return employees, nil
}

// GetReviewsForBook returns the book's reviews, newest first, with the
// reviewing client loaded.
func (s *CustomerService) GetReviewsForBook(bookID uint) ([]models.BookReview, error) {
	if err := s.checkExists(&models.Book{}, bookID, "book"); err != nil {
		return nil, err
	}

	var reviews []models.BookReview
	err := s.db.
		Preload("Client").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "find reviews")
	}
	return reviews, nil
}

// DeleteClient is a restrict delete while the client has orders:
// historical orders must survive client removal. The client's reviews
// go with the client.
func (s *CustomerService) DeleteClient(id uint) error {
	if err := s.checkExists(&models.Client{}, id, "client"); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Order{}).Where("client_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "count client orders")
	}
	if count > 0 {
		return apperrors.Conflict("client %d still has %d orders", id, count)
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&models.BookReview{}).Error; err != nil {
			return apperrors.FromDB(err, "delete client reviews")
		}
		if err := tx.Delete(&models.Client{}, id).Error; err != nil {
			return apperrors.FromDB(err, "delete client")
		}
		return nil
	})
}

// DeleteEmployee cascades to the employee's orders, including each
// order's items and status history, in one transaction.
func (s *CustomerService) DeleteEmployee(id uint) error {
	if err := s.checkExists(&models.Employee{}, id, "employee"); err != nil {
		return err
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).
			Where("employee_id = ?", id).
			Pluck("id", &orderIDs).Error; err != nil {
			return apperrors.FromDB(err, "load employee orders")
		}

		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return apperrors.FromDB(err, "delete order items")
			}
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderStatusHistory{}).Error; err != nil {
				return apperrors.FromDB(err, "delete status history")
			}
			if err := tx.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
				return apperrors.FromDB(err, "delete orders")
			}
		}

		if err := tx.Delete(&models.Employee{}, id).Error; err != nil {
			return apperrors.FromDB(err, "delete employee")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("employee_id", id).Info("Employee deleted with orders")
	return nil
}

func (s *CustomerService) checkExists(model interface{}, id uint, name string) error {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.FromDB(err, "check "+name)
	}
	if count == 0 {
		return apperrors.NotFound("%s %d not found", name, id)
	}
	return nil
}
