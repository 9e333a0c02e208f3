package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogdomain "optiledger-backend/internal/catalog/domain"
	"optiledger-backend/internal/ingest/domain"
	"optiledger-backend/pkg/vendorsite"
)

// Validation sentinels. All of these are non-retryable: the email either
// lacks the data or the vendor changed its layout, and partial garbage must
// never reach the order tables.
var (
	ErrUnknownVendor = errors.New("no extraction strategy for vendor")
	ErrNoOrderNumber = errors.New("no order number found")
	ErrNoLineItems   = errors.New("no line items extracted")
	ErrBadQuantity   = errors.New("line item has non-positive quantity")
	ErrMissingModel  = errors.New("line item missing model")
	ErrNoAttachment  = errors.New("expected order attachment not found")
)

// Input is what every strategy receives: the normalized HTML body, the
// plaintext alternative, and any decoded attachments
type Input struct {
	HTML        string
	PlainText   string
	Attachments []domain.Attachment
}

// Extractor is the capability interface one vendor strategy implements.
// Strategies share no code hierarchy; vendor layouts are unrelated
// table/markup structures and each parser stands alone.
type Extractor interface {
	VendorID() string
	Extract(input Input) (*domain.Extraction, error)
}

// CatalogFetcher is the optional capability a strategy adds when its
// vendor's public catalog can be consulted for missing attributes
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, item domain.LineItemDraft) (*catalogdomain.CatalogEntry, error)
}

// Registry maps vendor IDs to their extraction strategies. Adding a vendor
// means registering a new implementation, never branching existing code.
type Registry struct {
	strategies map[string]Extractor
}

// NewRegistry creates an empty strategy registry
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Extractor)}
}

// NewDefaultRegistry creates a registry with every supported vendor
// strategy installed. safiloSite may be nil when catalog scraping is
// disabled.
func NewDefaultRegistry(safiloSite *vendorsite.SafiloCatalog) *Registry {
	r := NewRegistry()
	r.Register(NewSafiloExtractor(safiloSite))
	r.Register(NewLuxotticaExtractor())
	r.Register(NewModernOpticalExtractor())
	r.Register(NewEuropaExtractor())
	r.Register(NewMarchonExtractor())
	return r
}

// Register adds or replaces the strategy for a vendor
func (r *Registry) Register(e Extractor) {
	r.strategies[e.VendorID()] = e
}

// Strategy returns the registered strategy for a vendor
func (r *Registry) Strategy(vendorID string) (Extractor, bool) {
	e, ok := r.strategies[vendorID]
	return e, ok
}

// Extract runs the vendor's strategy and gates the result through the
// shared validation rules
func (r *Registry) Extract(vendorID string, input Input) (*domain.Extraction, error) {
	strategy, ok := r.strategies[vendorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVendor, vendorID)
	}

	ext, err := strategy.Extract(input)
	if err != nil {
		return nil, err
	}
	if err := Validate(ext); err != nil {
		return nil, err
	}
	return ext, nil
}

// Validate applies the cross-vendor acceptance rules to an extraction
func Validate(ext *domain.Extraction) error {
	if strings.TrimSpace(ext.Order.OrderNumber) == "" {
		return ErrNoOrderNumber
	}
	if len(ext.Items) == 0 {
		return ErrNoLineItems
	}
	for i, item := range ext.Items {
		if strings.TrimSpace(item.Model) == "" {
			return fmt.Errorf("%w: item %d", ErrMissingModel, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d (%s)", ErrBadQuantity, i+1, item.Model)
		}
	}
	return nil
}
