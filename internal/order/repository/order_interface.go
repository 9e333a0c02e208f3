package repository

import (
	"errors"
	"time"

	"optiledger-backend/internal/order/domain"
)

// ErrDuplicateOrder is returned when an insert collides with an existing
// (account_id, order_number) pair
var ErrDuplicateOrder = errors.New("order already exists for this account and order number")

// OrderRepository defines the interface for order and line item persistence
type OrderRepository interface {
	// FindByNaturalKey retrieves an order by its tenant-scoped order number,
	// nil when absent
	FindByNaturalKey(accountID, orderNumber string) (*domain.Order, error)

	// InsertWithItems atomically creates an order and its line items.
	// Returns ErrDuplicateOrder when the natural key is already taken,
	// including when a concurrent insert wins the race.
	InsertWithItems(order *domain.Order, items []domain.LineItem) error

	// FindByID retrieves an order with its line items preloaded
	FindByID(id string) (*domain.Order, error)

	// ListByAccount retrieves orders for a tenant with optional filters,
	// newest first
	ListByAccount(accountID, vendorID string, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, int64, error)

	// FindItemByID retrieves a single line item, nil when absent
	FindItemByID(id string) (*domain.LineItem, error)

	// UpdateItemReceived sets an item's receiving flag and date
	UpdateItemReceived(id string, state domain.ReceivedState, date *time.Time) error

	// UpdateItemAttributes applies a partial update of product attribute
	// columns to one line item
	UpdateItemAttributes(id string, attrs map[string]interface{}) error

	// UpdateOrderStatus sets an order's lifecycle status
	UpdateOrderStatus(id string, status domain.OrderStatus) error
}
