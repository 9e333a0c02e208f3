package domain

import "time"

// FailureKind classifies why an email left the pipeline early
type FailureKind string

const (
	// FailureManualReview marks vendor identification below the confidence
	// floor; the email waits for a human decision, extraction never ran
	FailureManualReview FailureKind = "manual_review"
	// FailureValidation marks an extraction that produced no usable order;
	// non-retryable without a parser change
	FailureValidation FailureKind = "validation"
)

// IngestFailure is one dead-lettered email. Rows are written with full
// context so the pipeline itself never has to be re-run to diagnose them.
type IngestFailure struct {
	ID         string      `json:"id" gorm:"primaryKey"`
	AccountID  string      `json:"account_id" gorm:"index;not null"`
	Kind       FailureKind `json:"kind" gorm:"index;not null"`
	Reason     string      `json:"reason" gorm:"not null"`
	Sender     string      `json:"sender,omitempty"`
	Subject    string      `json:"subject,omitempty"`
	VendorID   string      `json:"vendor_id,omitempty"`
	ScoresJSON string      `json:"scores_json,omitempty" gorm:"type:text"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName specifies the table name for GORM
func (IngestFailure) TableName() string {
	return "ingest_failures"
}
