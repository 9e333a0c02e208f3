package dto

import (
	"optiledger-backend/internal/order/domain"
)

// OrdersResponse is the paged order ledger view
type OrdersResponse struct {
	Orders []*domain.Order `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Total  int64           `json:"total"`
}

// UpdateReceivedRequest flips one line item's tri-state receiving flag.
// ReceivedDate is honored only when received is "received"; omitting it
// defaults to now.
type UpdateReceivedRequest struct {
	Received     string  `json:"received" binding:"required"`
	ReceivedDate *string `json:"received_date"`
}
