package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"optiledger-backend/internal/catalog/domain"
	"optiledger-backend/internal/catalog/repository"
	ingestdomain "optiledger-backend/internal/ingest/domain"
	vendordomain "optiledger-backend/internal/vendors/domain"
)

// SiteFetcher is the optional capability an extraction strategy exposes
// when the vendor's public catalog can be consulted for one line item.
// Discovered by type assertion on the registered strategy; most vendors
// do not have it.
type SiteFetcher interface {
	FetchCatalog(ctx context.Context, item ingestdomain.LineItemDraft) (*domain.CatalogEntry, error)
}

// Enricher fills missing product attributes on extracted line items from
// the shared catalog, scraping the vendor's site on a miss when the vendor
// supports it. Enrichment is best effort: a failure degrades one item and
// never fails the order.
type Enricher struct {
	repo    repository.CatalogRepository
	timeout time.Duration
}

// NewEnricher creates an Enricher. timeout bounds each external lookup.
func NewEnricher(repo repository.CatalogRepository, timeout time.Duration) *Enricher {
	return &Enricher{repo: repo, timeout: timeout}
}

// Enrich works through the items in place. Items already carrying their
// high-value attributes are left alone. Returned notes describe per-item
// degradations; an empty slice means every gap was filled or no item had
// gaps.
func (e *Enricher) Enrich(ctx context.Context, pattern *vendordomain.VendorPattern, fetcher SiteFetcher, items []ingestdomain.LineItemDraft) []string {
	var notes []string
	for i := range items {
		if !missingAttributes(&items[i], pattern.PublicPricing) {
			continue
		}
		if err := e.enrichItem(ctx, pattern, fetcher, &items[i]); err != nil {
			log.Printf("[Enricher] %s %s: %v", pattern.VendorID, items[i].SKU, err)
			notes = append(notes, fmt.Sprintf("enrichment: item %s: %v", items[i].SKU, err))
		}
	}
	return notes
}

func (e *Enricher) enrichItem(ctx context.Context, pattern *vendordomain.VendorPattern, fetcher SiteFetcher, item *ingestdomain.LineItemDraft) error {
	eye := 0
	if item.EyeSize != nil {
		eye = *item.EyeSize
	}

	entry, err := e.repo.FindVariant(pattern.VendorID, item.Model, item.ColorCode, eye)
	if err != nil {
		return fmt.Errorf("catalog probe: %w", err)
	}
	if entry != nil {
		applyEntry(item, entry, pattern.PublicPricing)
		e.bumpPopularity(entry)
		return nil
	}

	if fetcher == nil || !pattern.EnrichmentCapable {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	obs, err := fetcher.FetchCatalog(lookupCtx, *item)
	if err != nil {
		return fmt.Errorf("site lookup: %w", err)
	}
	if obs == nil {
		// the site simply does not list this frame
		return nil
	}
	if !pattern.PublicPricing {
		obs.WholesalePrice = nil
	}

	stored, err := e.repo.Upsert(obs)
	if err != nil {
		return fmt.Errorf("catalog upsert: %w", err)
	}
	applyEntry(item, stored, pattern.PublicPricing)
	e.bumpPopularity(stored)
	return nil
}

func (e *Enricher) bumpPopularity(entry *domain.CatalogEntry) {
	if err := e.repo.IncrementTimesOrdered(entry.ID); err != nil {
		log.Printf("[Enricher] bump times_ordered for %s: %v", entry.ID, err)
	}
}

// missingAttributes reports whether an item still lacks any attribute
// enrichment could provide. Pricing counts only for vendors that publish
// it; for the rest a null price is final, never guessed.
func missingAttributes(item *ingestdomain.LineItemDraft, wantPricing bool) bool {
	if item.UPC == nil || item.EyeSize == nil || item.Bridge == nil || item.TempleLength == nil {
		return true
	}
	return wantPricing && item.WholesaleCost == nil
}

// applyEntry copies catalog attributes into the item's gaps. Fields the
// email already supplied are never displaced, whatever the catalog says.
func applyEntry(item *ingestdomain.LineItemDraft, entry *domain.CatalogEntry, allowPricing bool) {
	source := string(entry.DataSource)

	if item.Brand == "" && entry.Brand != "" {
		item.Brand = entry.Brand
	}
	if item.ColorName == "" && entry.ColorName != "" {
		item.ColorName = entry.ColorName
	}
	if item.UPC == nil && entry.UPC != nil {
		v := *entry.UPC
		item.UPC = &v
		item.TagField("upc", source, entry.ConfidenceScore)
	}
	if item.EyeSize == nil && entry.EyeSize > 0 {
		v := entry.EyeSize
		item.EyeSize = &v
		item.TagField("eye_size", source, entry.ConfidenceScore)
	}
	if item.Bridge == nil && entry.Bridge != nil {
		v := *entry.Bridge
		item.Bridge = &v
		item.TagField("bridge", source, entry.ConfidenceScore)
	}
	if item.TempleLength == nil && entry.TempleLength != nil {
		v := *entry.TempleLength
		item.TempleLength = &v
		item.TagField("temple_length", source, entry.ConfidenceScore)
	}
	if allowPricing && item.WholesaleCost == nil && entry.WholesalePrice != nil {
		v := *entry.WholesalePrice
		item.WholesaleCost = &v
		item.TagField("wholesale_cost", source, entry.ConfidenceScore)
	}
}
