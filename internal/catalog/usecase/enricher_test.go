package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"optiledger-backend/internal/catalog/domain"
	"optiledger-backend/internal/catalog/repository"
	ingestdomain "optiledger-backend/internal/ingest/domain"
	vendordomain "optiledger-backend/internal/vendors/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) repository.CatalogRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return repository.NewGormCatalogRepository(db)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func safiloPattern(capable, pricing bool) *vendordomain.VendorPattern {
	return &vendordomain.VendorPattern{
		VendorID:          vendordomain.VendorSafilo,
		EnrichmentCapable: capable,
		PublicPricing:     pricing,
	}
}

func scrapedEntry() *domain.CatalogEntry {
	return &domain.CatalogEntry{
		VendorID:        vendordomain.VendorSafilo,
		Brand:           "CARRERA",
		Model:           "8053/CS",
		ColorCode:       "003",
		ColorName:       "MATTE BLACK",
		EyeSize:         54,
		UPC:             strPtr("762753948396"),
		Bridge:          intPtr(18),
		TempleLength:    intPtr(140),
		WholesalePrice:  decPtr("72.00"),
		ConfidenceScore: 90,
		DataSource:      domain.SourceWebScrape,
	}
}

func bareDraft() ingestdomain.LineItemDraft {
	eye := 54
	return ingestdomain.LineItemDraft{
		SKU:       "CARRERA-8053/CS-003-54",
		Model:     "8053/CS",
		ColorCode: "003",
		EyeSize:   &eye,
		Quantity:  2,
		InStock:   true,
	}
}

type stubFetcher struct {
	entry       *domain.CatalogEntry
	err         error
	calls       int
	sawDeadline bool
}

func (f *stubFetcher) FetchCatalog(ctx context.Context, item ingestdomain.LineItemDraft) (*domain.CatalogEntry, error) {
	f.calls++
	_, f.sawDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.entry, nil
}

func TestEnrichCacheHitFillsGaps(t *testing.T) {
	repo := newTestRepo(t)
	seeded, err := repo.Upsert(scrapedEntry())
	require.NoError(t, err)

	fetcher := &stubFetcher{}
	enricher := NewEnricher(repo, time.Second)
	items := []ingestdomain.LineItemDraft{bareDraft()}

	notes := enricher.Enrich(context.Background(), safiloPattern(true, true), fetcher, items)
	assert.Empty(t, notes)
	assert.Zero(t, fetcher.calls, "cache hits must not reach the vendor site")

	item := items[0]
	require.NotNil(t, item.UPC)
	assert.Equal(t, "762753948396", *item.UPC)
	require.NotNil(t, item.Bridge)
	assert.Equal(t, 18, *item.Bridge)
	require.NotNil(t, item.TempleLength)
	assert.Equal(t, 140, *item.TempleLength)
	require.NotNil(t, item.WholesaleCost)
	assert.True(t, decimal.RequireFromString("72.00").Equal(*item.WholesaleCost))
	assert.Equal(t, "CARRERA", item.Brand)
	assert.Equal(t, "MATTE BLACK", item.ColorName)

	prov, ok := item.FieldSource["upc"]
	require.True(t, ok)
	assert.Equal(t, "web_scrape", prov.Source)
	assert.Equal(t, 90, prov.Confidence)

	bumped, err := repo.FindVariant(seeded.VendorID, seeded.Model, seeded.ColorCode, seeded.EyeSize)
	require.NoError(t, err)
	require.NotNil(t, bumped)
	assert.Equal(t, 1, bumped.TimesOrdered)
}

func TestEnrichCompleteItemUntouched(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &stubFetcher{entry: scrapedEntry()}
	enricher := NewEnricher(repo, time.Second)

	item := bareDraft()
	item.UPC = strPtr("111122223333")
	item.Bridge = intPtr(19)
	item.TempleLength = intPtr(145)
	item.WholesaleCost = decPtr("65.00")
	items := []ingestdomain.LineItemDraft{item}

	notes := enricher.Enrich(context.Background(), safiloPattern(true, true), fetcher, items)
	assert.Empty(t, notes)
	assert.Zero(t, fetcher.calls)
	assert.Equal(t, "111122223333", *items[0].UPC)
	assert.Empty(t, items[0].FieldSource)
}

func TestEnrichMissScrapesAndUpserts(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &stubFetcher{entry: scrapedEntry()}
	enricher := NewEnricher(repo, time.Second)
	items := []ingestdomain.LineItemDraft{bareDraft()}

	notes := enricher.Enrich(context.Background(), safiloPattern(true, true), fetcher, items)
	assert.Empty(t, notes)
	assert.Equal(t, 1, fetcher.calls)
	assert.True(t, fetcher.sawDeadline, "site lookups must be time-bounded")

	require.NotNil(t, items[0].UPC)
	assert.Equal(t, "762753948396", *items[0].UPC)

	stored, err := repo.FindVariant(vendordomain.VendorSafilo, "8053/CS", "003", 54)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.SourceWebScrape, stored.DataSource)
	assert.Equal(t, 90, stored.ConfidenceScore)
	assert.Equal(t, 1, stored.TimesOrdered)
}

func TestEnrichMissWithoutCapabilitySkipsLookup(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &stubFetcher{entry: scrapedEntry()}
	enricher := NewEnricher(repo, time.Second)
	items := []ingestdomain.LineItemDraft{bareDraft()}

	notes := enricher.Enrich(context.Background(), safiloPattern(false, false), fetcher, items)
	assert.Empty(t, notes)
	assert.Zero(t, fetcher.calls)
	assert.Nil(t, items[0].UPC)

	// nil fetcher means the strategy has no catalog capability at all
	notes = enricher.Enrich(context.Background(), safiloPattern(true, true), nil, items)
	assert.Empty(t, notes)
	assert.Nil(t, items[0].UPC)
}

func TestEnrichPricingLeftNullWithoutPublicPricing(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &stubFetcher{entry: scrapedEntry()}
	enricher := NewEnricher(repo, time.Second)
	items := []ingestdomain.LineItemDraft{bareDraft()}

	notes := enricher.Enrich(context.Background(), safiloPattern(true, false), fetcher, items)
	assert.Empty(t, notes)
	require.NotNil(t, items[0].UPC)
	assert.Nil(t, items[0].WholesaleCost, "pricing is never guessed for non-public vendors")

	stored, err := repo.FindVariant(vendordomain.VendorSafilo, "8053/CS", "003", 54)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.WholesalePrice)
}

func TestEnrichLookupFailureIsolatedPerItem(t *testing.T) {
	repo := newTestRepo(t)
	enricher := NewEnricher(repo, time.Second)

	bad := bareDraft()
	bad.SKU = "CARRERA-BADFRAME-003-54"
	bad.Model = "BADFRAME"
	good := bareDraft()
	items := []ingestdomain.LineItemDraft{bad, good}

	fetcher := &selectiveFetcher{good: scrapedEntry()}
	notes := enricher.Enrich(context.Background(), safiloPattern(true, true), fetcher, items)

	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "CARRERA-BADFRAME-003-54")
	assert.Contains(t, notes[0], "site lookup")

	assert.Nil(t, items[0].UPC)
	require.NotNil(t, items[1].UPC, "one item's failure must not abort the rest")
}

type selectiveFetcher struct {
	good *domain.CatalogEntry
}

func (f *selectiveFetcher) FetchCatalog(ctx context.Context, item ingestdomain.LineItemDraft) (*domain.CatalogEntry, error) {
	if item.Model == "BADFRAME" {
		return nil, errors.New("connection reset")
	}
	return f.good, nil
}

func TestEnrichSiteMissLeavesNulls(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &stubFetcher{}
	enricher := NewEnricher(repo, time.Second)
	items := []ingestdomain.LineItemDraft{bareDraft()}

	notes := enricher.Enrich(context.Background(), safiloPattern(true, true), fetcher, items)
	assert.Empty(t, notes)
	assert.Equal(t, 1, fetcher.calls)
	assert.Nil(t, items[0].UPC)

	stored, err := repo.FindVariant(vendordomain.VendorSafilo, "8053/CS", "003", 54)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
