package usecase

import (
	"context"

	"optiledger-backend/internal/ingest/domain"
)

// IngestUsecase defines the interface for email ingestion operations
type IngestUsecase interface {
	// Ingest runs one email through the pipeline and reports the outcome.
	// It never returns an error: every failure mode is folded into the
	// result so one bad email cannot abort a batch.
	Ingest(ctx context.Context, accountID string, email domain.InboundEmail) domain.IngestResult

	// ListFailures pages through an account's dead-letter queue, optionally
	// filtered by failure kind
	ListFailures(accountID string, kind *string, limit, offset int) ([]*domain.IngestFailure, int64, error)
}
