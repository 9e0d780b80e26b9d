// internal/models/common.go
package models

// Enums
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "Created"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Publication year lower bound. Keeps obviously garbage input
// (e.g. a dropped digit like 199) out of the catalog.
const MinPublicationYear = 1000
