package usecase

import (
	"optiledger-backend/internal/catalog/domain"
)

// CatalogUsecase defines the interface for catalog read operations
type CatalogUsecase interface {
	// ListEntries retrieves catalog entries, optionally filtered by vendor
	ListEntries(vendorID string, limit, offset int) ([]*domain.CatalogEntry, int64, error)

	// FindVariant retrieves one frame variant, nil when the catalog has
	// never observed it
	FindVariant(vendorID, model, colorCode string, eyeSize int) (*domain.CatalogEntry, error)
}
