// internal/handlers/customers.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/services"
	"bookstore-backend/internal/utils"
)

type CustomerHandler struct {
	customerService *services.CustomerService
	orderService    *services.OrderService
}

func NewCustomerHandler(customerService *services.CustomerService, orderService *services.OrderService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		orderService:    orderService,
	}
}

// POST /clients
func (h *CustomerHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	client, err := h.customerService.CreateClient(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, client)
}

// GET /clients
func (h *CustomerHandler) GetClients(c *gin.Context) {
	clients, err := h.customerService.ListClients()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, clients)
}

// GET /clients/:id
func (h *CustomerHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client, err := h.customerService.GetClient(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, client)
}

// GET /clients/:id/orders
func (h *CustomerHandler) GetClientOrders(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.GetOrdersByClient(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, orders)
}

// DELETE /clients/:id
func (h *CustomerHandler) DeleteClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteClient(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// POST /employees
func (h *CustomerHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	employee, err := h.customerService.CreateEmployee(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, employee)
}

// GET /employees
func (h *CustomerHandler) GetEmployees(c *gin.Context) {
	employees, err := h.customerService.ListEmployees()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, employees)
}

// GET /employees/:id
func (h *CustomerHandler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	employee, err := h.customerService.GetEmployee(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, employee)
}

// DELETE /employees/:id
func (h *CustomerHandler) DeleteEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteEmployee(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// POST /reviews
func (h *CustomerHandler) AddReview(c *gin.Context) {
	var req services.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	review, err := h.customerService.AddBookReview(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, review)
}

// GET /books/:id/reviews
func (h *CustomerHandler) GetBookReviews(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reviews, err := h.customerService.GetReviewsForBook(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, reviews)
}
