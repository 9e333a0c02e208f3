package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Known vendor identifiers. These are natural keys, not display names;
// extraction strategies register under the same values.
const (
	VendorSafilo        = "safilo"
	VendorLuxottica     = "luxottica"
	VendorModernOptical = "modernoptical"
	VendorEuropa        = "europa"
	VendorMarchon       = "marchon"
	VendorUnknown       = "unknown"
)

// ConfidenceFloor is the global acceptance gate: a detection below this
// confidence is surfaced for manual review instead of being resolved.
const ConfidenceFloor = 70

// StringArray is a custom type to handle JSON array columns in GORM
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*a = []string{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// VendorPattern is the declarative matching configuration for one vendor.
// Loaded into an immutable snapshot and only mutated by administrative
// update, never by the ingestion pipeline.
type VendorPattern struct {
	ID          string `json:"id" gorm:"primaryKey"`
	VendorID    string `json:"vendor_id" gorm:"uniqueIndex;not null"`
	DisplayName string `json:"display_name"`

	Tier1Domains         StringArray `json:"tier1_domains" gorm:"type:text"`
	Tier2Signatures      StringArray `json:"tier2_signatures" gorm:"type:text"`
	Tier3SubjectKeywords StringArray `json:"tier3_subject_keywords" gorm:"type:text"`
	Tier3BodyKeywords    StringArray `json:"tier3_body_keywords" gorm:"type:text"`
	Tier3RequiredMatches int         `json:"tier3_required_matches" gorm:"default:2"`

	Tier1Weight int `json:"tier1_weight" gorm:"default:95"`
	Tier2Weight int `json:"tier2_weight" gorm:"default:85"`
	Tier3Weight int `json:"tier3_weight" gorm:"default:60"`

	// EnrichmentCapable marks vendors whose public catalog can be scraped
	// for missing product attributes. PublicPricing marks vendors whose
	// wholesale pricing is available on those pages; when false, pricing
	// fields stay null rather than guessed.
	EnrichmentCapable bool `json:"enrichment_capable" gorm:"default:false"`
	PublicPricing     bool `json:"public_pricing" gorm:"default:false"`

	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (VendorPattern) TableName() string {
	return "vendor_patterns"
}
