package domain

import "time"

// OrderStatus represents the current state of a vendor order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether the status is owned by downstream fulfillment
// workflow. Terminal statuses are sticky and never recomputed from
// receiving flags.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents one vendor order confirmation ingested from email.
// (account_id, order_number) is the natural key: the same confirmation
// delivered twice must resolve to the same row, never a second one.
type Order struct {
	ID                  string      `json:"id" gorm:"primaryKey"`
	AccountID           string      `json:"account_id" gorm:"uniqueIndex:idx_account_order_number;not null"`
	VendorID            string      `json:"vendor_id" gorm:"index;not null"`
	OrderNumber         string      `json:"order_number" gorm:"uniqueIndex:idx_account_order_number;not null"`
	OrderDate           *time.Time  `json:"order_date,omitempty"`
	CustomerName        string      `json:"customer_name,omitempty"`
	RepName             string      `json:"rep_name,omitempty"`
	TotalPieces         int         `json:"total_pieces"`
	Status              OrderStatus `json:"status" gorm:"default:pending"`
	DetectionMethod     string      `json:"detection_method,omitempty"`
	DetectionConfidence int         `json:"detection_confidence"`
	Items               []LineItem  `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// ComputeOrderStatus derives an order's status from its items' receiving
// flags: no items received = pending, some = partial, all = confirmed.
// The rule is reversible (unmarking an item steps the status back down)
// but never touches a terminal status.
func ComputeOrderStatus(current OrderStatus, items []LineItem) OrderStatus {
	if current.Terminal() {
		return current
	}
	if len(items) == 0 {
		return OrderStatusPending
	}

	received := 0
	for _, item := range items {
		if item.Received == ReceivedYes {
			received++
		}
	}

	switch {
	case received == 0:
		return OrderStatusPending
	case received < len(items):
		return OrderStatusPartial
	default:
		return OrderStatusConfirmed
	}
}
