package repository

import (
	vendordomain "optiledger-backend/internal/vendors/domain"
)

// PatternRepository defines the interface for vendor pattern configuration
type PatternRepository interface {
	// FindActive returns all active vendor patterns
	FindActive() ([]vendordomain.VendorPattern, error)
	// FindByVendorID returns a single vendor's pattern, nil when absent
	FindByVendorID(vendorID string) (*vendordomain.VendorPattern, error)
	// Upsert creates or replaces the pattern for a vendor (administrative update)
	Upsert(pattern *vendordomain.VendorPattern) error
	// SeedDefaults inserts the built-in vendor patterns that do not exist yet
	SeedDefaults() error
}
