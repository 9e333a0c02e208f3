package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus represents the inventory state of a line item
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusCurrent  ItemStatus = "current"
	ItemStatusSold     ItemStatus = "sold"
	ItemStatusArchived ItemStatus = "archived"
	ItemStatusReturned ItemStatus = "returned"
)

// ReceivedState is the tri-state receiving flag. unset means the vendor has
// not shipped the piece yet; not_received means shipped but not checked in.
type ReceivedState string

const (
	ReceivedUnset ReceivedState = "unset"
	ReceivedNo    ReceivedState = "not_received"
	ReceivedYes   ReceivedState = "received"
)

// ParseReceivedState validates a client-supplied receiving value
func ParseReceivedState(s string) (ReceivedState, bool) {
	switch ReceivedState(s) {
	case ReceivedUnset, ReceivedNo, ReceivedYes:
		return ReceivedState(s), true
	}
	return "", false
}

// LineItem is one frame position on an order. Product attributes are each
// independently nullable: extraction fills what the email carries and
// enrichment backfills the rest when the catalog knows the variant.
type LineItem struct {
	ID            string           `json:"id" gorm:"primaryKey"`
	OrderID       string           `json:"order_id" gorm:"index;not null"`
	SKU           string           `json:"sku"`
	Brand         string           `json:"brand,omitempty"`
	Model         string           `json:"model" gorm:"not null"`
	ColorCode     string           `json:"color_code,omitempty"`
	ColorName     string           `json:"color_name,omitempty"`
	LensType      string           `json:"lens_type,omitempty"`
	Size          string           `json:"size,omitempty"`
	Quantity      int              `json:"quantity" gorm:"not null"`
	Status        ItemStatus       `json:"status" gorm:"default:pending"`
	Received      ReceivedState    `json:"received" gorm:"default:unset"`
	ReceivedDate  *time.Time       `json:"received_date,omitempty"`
	UPC           *string          `json:"upc,omitempty"`
	EyeSize       *int             `json:"eye_size,omitempty"`
	Bridge        *int             `json:"bridge,omitempty"`
	TempleLength  *int             `json:"temple_length,omitempty"`
	WholesaleCost *decimal.Decimal `json:"wholesale_cost,omitempty" gorm:"type:decimal(10,2)"`
	// no default tag: gorm drops zero-valued defaulted columns on insert,
	// which would turn back-ordered (false) into true
	InStock       bool             `json:"in_stock"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (LineItem) TableName() string {
	return "line_items"
}
