package repository

import (
	"optiledger-backend/internal/catalog/domain"
)

// CatalogRepository defines the interface for catalog entry operations
type CatalogRepository interface {
	// FindVariant retrieves the entry for one frame variant, nil when absent
	FindVariant(vendorID, model, colorCode string, eyeSize int) (*domain.CatalogEntry, error)

	// List retrieves entries, optionally filtered by vendor, newest first
	List(vendorID string, limit, offset int) ([]*domain.CatalogEntry, int64, error)

	// Upsert creates the variant or merges the observation into the stored
	// entry under the confidence rule, returning the resulting row
	Upsert(entry *domain.CatalogEntry) (*domain.CatalogEntry, error)

	// IncrementTimesOrdered bumps the popularity counter atomically
	IncrementTimesOrdered(id string) error
}
