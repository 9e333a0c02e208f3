package repository

import (
	"optiledger-backend/internal/ingest/domain"
)

// FailureRepository defines the interface for dead-letter record operations
type FailureRepository interface {
	// Create persists one failure record
	Create(failure *domain.IngestFailure) error

	// ListByAccount retrieves an account's failures newest first,
	// optionally filtered by kind
	ListByAccount(accountID string, kind *domain.FailureKind, limit, offset int) ([]*domain.IngestFailure, int64, error)
}
