package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DataSource identifies where a catalog observation came from
type DataSource string

const (
	SourceWebScrape  DataSource = "web_scrape"
	SourceAPI        DataSource = "api"
	SourceManual     DataSource = "manual"
	SourceEmailParse DataSource = "email_parse"
)

// CatalogEntry is one observed frame variant, shared across accounts.
// The variant key is (vendor_id, model, color_code, eye_size): entries are
// upserted on that key and never duplicated. TimesOrdered only ever goes up.
type CatalogEntry struct {
	ID              string           `json:"id" gorm:"primaryKey"`
	VendorID        string           `json:"vendor_id" gorm:"uniqueIndex:idx_catalog_variant;not null"`
	Brand           string           `json:"brand,omitempty"`
	Model           string           `json:"model" gorm:"uniqueIndex:idx_catalog_variant;not null"`
	ColorCode       string           `json:"color_code" gorm:"uniqueIndex:idx_catalog_variant"`
	ColorName       string           `json:"color_name,omitempty"`
	EyeSize         int              `json:"eye_size" gorm:"uniqueIndex:idx_catalog_variant"`
	UPC             *string          `json:"upc,omitempty"`
	Bridge          *int             `json:"bridge,omitempty"`
	TempleLength    *int             `json:"temple_length,omitempty"`
	WholesalePrice  *decimal.Decimal `json:"wholesale_price,omitempty" gorm:"type:decimal(10,2)"`
	ConfidenceScore int              `json:"confidence_score" gorm:"default:0"`
	DataSource      DataSource       `json:"data_source" gorm:"default:email_parse"`
	TimesOrdered    int              `json:"times_ordered" gorm:"default:0"`
	LastUpdated     time.Time        `json:"last_updated"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM
func (CatalogEntry) TableName() string {
	return "catalog_entries"
}

// Merge folds a new observation into an existing entry and reports whether
// anything changed. Empty fields are always filled; populated fields are
// overwritten only when the observation's confidence is strictly higher, so
// an equal-confidence observation never displaces stored data.
func (e *CatalogEntry) Merge(obs *CatalogEntry) bool {
	overwrite := obs.ConfidenceScore > e.ConfidenceScore
	changed := false

	if e.Brand == "" && obs.Brand != "" || overwrite && obs.Brand != "" && obs.Brand != e.Brand {
		e.Brand = obs.Brand
		changed = true
	}
	if e.ColorName == "" && obs.ColorName != "" || overwrite && obs.ColorName != "" && obs.ColorName != e.ColorName {
		e.ColorName = obs.ColorName
		changed = true
	}
	if mergeString(&e.UPC, obs.UPC, overwrite) {
		changed = true
	}
	if mergeInt(&e.Bridge, obs.Bridge, overwrite) {
		changed = true
	}
	if mergeInt(&e.TempleLength, obs.TempleLength, overwrite) {
		changed = true
	}
	if mergeDecimal(&e.WholesalePrice, obs.WholesalePrice, overwrite) {
		changed = true
	}

	if overwrite {
		e.ConfidenceScore = obs.ConfidenceScore
		e.DataSource = obs.DataSource
		changed = true
	}
	return changed
}

func mergeString(dst **string, src *string, overwrite bool) bool {
	if src == nil || *src == "" {
		return false
	}
	if *dst == nil || (overwrite && **dst != *src) {
		v := *src
		*dst = &v
		return true
	}
	return false
}

func mergeInt(dst **int, src *int, overwrite bool) bool {
	if src == nil {
		return false
	}
	if *dst == nil || (overwrite && **dst != *src) {
		v := *src
		*dst = &v
		return true
	}
	return false
}

func mergeDecimal(dst **decimal.Decimal, src *decimal.Decimal, overwrite bool) bool {
	if src == nil {
		return false
	}
	if *dst == nil || (overwrite && !(*dst).Equal(*src)) {
		v := *src
		*dst = &v
		return true
	}
	return false
}
