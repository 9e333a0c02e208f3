package usecase

import (
	"optiledger-backend/internal/order/domain"
)

// OrderUsecase defines the interface for order business logic
type OrderUsecase interface {
	// GetOrder retrieves an order with its items (with ownership check)
	GetOrder(accountID, orderID string) (*domain.Order, error)

	// ListOrders retrieves a tenant's orders with optional vendor/status filters
	ListOrders(accountID, vendorID string, status *string, limit, offset int) ([]*domain.Order, int64, error)

	// SetItemReceived updates one item's tri-state receiving flag and
	// recomputes the parent order's status from all of its items.
	// Returns the refreshed order.
	SetItemReceived(accountID, itemID, state string, receivedDate *string) (*domain.Order, error)
}
