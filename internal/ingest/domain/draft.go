package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FieldProvenance tags one enriched attribute with where the value came
// from and how much the source is trusted
type FieldProvenance struct {
	Source     string `json:"source"`
	Confidence int    `json:"confidence"`
}

// OrderDraft holds the scalar order fields a vendor strategy extracted,
// before any persistence identity exists
type OrderDraft struct {
	OrderNumber  string     `json:"order_number"`
	OrderDate    *time.Time `json:"order_date,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	RepName      string     `json:"rep_name,omitempty"`
	TotalPieces  int        `json:"total_pieces"`
}

// LineItemDraft is the vendor-agnostic form every extraction strategy
// produces. Product attributes start as whatever the email carried;
// enrichment fills the gaps and tags each filled field with provenance.
type LineItemDraft struct {
	SKU           string           `json:"sku"`
	Brand         string           `json:"brand,omitempty"`
	Model         string           `json:"model"`
	ColorCode     string           `json:"color_code,omitempty"`
	ColorName     string           `json:"color_name,omitempty"`
	LensType      string           `json:"lens_type,omitempty"`
	Size          string           `json:"size,omitempty"`
	Quantity      int              `json:"quantity"`
	InStock       bool             `json:"in_stock"`
	UPC           *string          `json:"upc,omitempty"`
	EyeSize       *int             `json:"eye_size,omitempty"`
	Bridge        *int             `json:"bridge,omitempty"`
	TempleLength  *int             `json:"temple_length,omitempty"`
	WholesaleCost *decimal.Decimal `json:"wholesale_cost,omitempty"`

	// FieldSource maps attribute names (upc, eye_size, bridge,
	// temple_length, wholesale_cost) to their provenance once filled.
	FieldSource map[string]FieldProvenance `json:"field_source,omitempty"`
}

// TagField records provenance for one filled attribute
func (d *LineItemDraft) TagField(name, source string, confidence int) {
	if d.FieldSource == nil {
		d.FieldSource = make(map[string]FieldProvenance)
	}
	d.FieldSource[name] = FieldProvenance{Source: source, Confidence: confidence}
}

// Extraction is the complete output of one vendor strategy
type Extraction struct {
	Order OrderDraft      `json:"order"`
	Items []LineItemDraft `json:"items"`
}
