package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	catalogdomain "optiledger-backend/internal/catalog/domain"
	catalogrepository "optiledger-backend/internal/catalog/repository"
	catalogusecase "optiledger-backend/internal/catalog/usecase"
	"optiledger-backend/internal/ingest/domain"
	"optiledger-backend/internal/ingest/extract"
	"optiledger-backend/internal/ingest/normalizer"
	"optiledger-backend/internal/ingest/repository"
	orderdomain "optiledger-backend/internal/order/domain"
	orderrepository "optiledger-backend/internal/order/repository"
	vendorrepository "optiledger-backend/internal/vendors/repository"
	vendorusecase "optiledger-backend/internal/vendors/usecase"
	"optiledger-backend/pkg/events"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	events []events.OrderCreated
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, event events.OrderCreated) error {
	p.events = append(p.events, event)
	return nil
}

type pipeline struct {
	ingest    IngestUsecase
	orders    orderrepository.OrderRepository
	catalog   catalogrepository.CatalogRepository
	publisher *recordingPublisher
}

// newPipeline wires the full coordinator against sqlite with the seeded
// vendor patterns and no catalog site configured
func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	patterns := vendorrepository.NewPatternRepository(db)
	require.NoError(t, patterns.SeedDefaults())
	store, err := vendorusecase.NewPatternStore(patterns, time.Minute)
	require.NoError(t, err)

	catalog := catalogrepository.NewGormCatalogRepository(db)
	orders := orderrepository.NewGormOrderRepository(db)
	failures := repository.NewGormFailureRepository(db)
	publisher := &recordingPublisher{}

	uc := NewIngestUsecase(
		store,
		normalizer.NewNormalizer(),
		extract.NewDefaultRegistry(nil),
		catalogusecase.NewEnricher(catalog, time.Second),
		orders,
		failures,
		publisher,
	)
	return &pipeline{ingest: uc, orders: orders, catalog: catalog, publisher: publisher}
}

const safiloConfirmation = `<html><body>
<p>Order Number: 113106782</p>
<p>Order Date: 08/12/2026</p>
<p>Sales Rep: KAREN DOYLE</p>
<p>Ship To: LAKESIDE EYE ASSOCIATES</p>
<table border="1">
<tr><th>Style</th><th>Color</th><th>Size</th><th>Qty</th><th>UPC</th><th>Availability</th></tr>
<tr><td>CARRERA - 8053/CS</td><td>003 MATTE BLACK - POLARIZED GRAY</td><td>54/18</td><td>2</td><td>762753948396</td><td></td></tr>
<tr><td>KATE SPADE - ROSALIE/G</td><td>086 DARK HAVANA</td><td>50/16</td><td>1</td><td></td><td>Back-Ordered</td></tr>
<tr><td>Order Total</td><td></td><td></td><td>3</td><td></td><td></td></tr>
</table>
</body></html>`

func safiloEmail() domain.InboundEmail {
	return domain.InboundEmail{
		Sender:   "Safilo Orders <noreply@safilo.com>",
		Subject:  "Your Receipt for Order 113106782",
		HTMLBody: safiloConfirmation,
	}
}

func itemsByModel(order *orderdomain.Order) map[string]orderdomain.LineItem {
	byModel := make(map[string]orderdomain.LineItem, len(order.Items))
	for _, item := range order.Items {
		byModel[item.Model] = item
	}
	return byModel
}

func TestIngestCreatesOrderWithItems(t *testing.T) {
	p := newPipeline(t)

	result := p.ingest.Ingest(context.Background(), "acct-1", safiloEmail())
	require.True(t, result.Success)
	assert.False(t, result.Duplicate)
	assert.False(t, result.NeedsManualReview)
	assert.Equal(t, 2, result.ItemsProcessed)
	assert.Empty(t, result.Failures)
	require.NotEmpty(t, result.OrderID)

	order, err := p.orders.FindByID(result.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "safilo", order.VendorID)
	assert.Equal(t, "113106782", order.OrderNumber)
	assert.Equal(t, orderdomain.OrderStatusPending, order.Status)
	assert.Equal(t, "domain", order.DetectionMethod)
	assert.Equal(t, 95, order.DetectionConfidence)
	assert.Equal(t, 3, order.TotalPieces)
	assert.Equal(t, "LAKESIDE EYE ASSOCIATES", order.CustomerName)
	require.Len(t, order.Items, 2)

	byModel := itemsByModel(order)
	carrera, ok := byModel["8053/CS"]
	require.True(t, ok)
	assert.Equal(t, "CARRERA", carrera.Brand)
	assert.Equal(t, 2, carrera.Quantity)
	assert.True(t, carrera.InStock)
	assert.Equal(t, orderdomain.ItemStatusPending, carrera.Status)
	assert.Equal(t, orderdomain.ReceivedUnset, carrera.Received)
	require.NotNil(t, carrera.UPC)
	assert.Equal(t, "762753948396", *carrera.UPC)

	rosalie, ok := byModel["ROSALIE/G"]
	require.True(t, ok)
	assert.False(t, rosalie.InStock)
	assert.Nil(t, rosalie.UPC)

	require.Len(t, p.publisher.events, 1)
	event := p.publisher.events[0]
	assert.Equal(t, "acct-1", event.AccountID)
	assert.Equal(t, result.OrderID, event.OrderID)
	assert.Equal(t, "safilo", event.VendorID)
	assert.Equal(t, "113106782", event.OrderNumber)
	assert.Equal(t, 2, event.ItemCount)
}

func TestIngestEnrichesFromCatalogCache(t *testing.T) {
	p := newPipeline(t)

	upc := "716736209105"
	temple := 140
	price := decimal.NewFromFloat(47.25)
	_, err := p.catalog.Upsert(&catalogdomain.CatalogEntry{
		VendorID:        "safilo",
		Brand:           "KATE SPADE",
		Model:           "ROSALIE/G",
		ColorCode:       "086",
		EyeSize:         50,
		UPC:             &upc,
		TempleLength:    &temple,
		WholesalePrice:  &price,
		ConfidenceScore: 90,
		DataSource:      catalogdomain.SourceWebScrape,
	})
	require.NoError(t, err)

	result := p.ingest.Ingest(context.Background(), "acct-1", safiloEmail())
	require.True(t, result.Success)
	assert.Empty(t, result.Failures)

	order, err := p.orders.FindByID(result.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	byModel := itemsByModel(order)

	// gaps filled from the cached variant after the order was persisted
	rosalie, ok := byModel["ROSALIE/G"]
	require.True(t, ok)
	require.NotNil(t, rosalie.UPC)
	assert.Equal(t, upc, *rosalie.UPC)
	require.NotNil(t, rosalie.TempleLength)
	assert.Equal(t, temple, *rosalie.TempleLength)
	require.NotNil(t, rosalie.WholesaleCost)
	assert.True(t, rosalie.WholesaleCost.Equal(price))

	// measurements the email itself carried stay untouched
	require.NotNil(t, rosalie.Bridge)
	assert.Equal(t, 16, *rosalie.Bridge)

	// no cached variant for the other item and no site configured
	carrera, ok := byModel["8053/CS"]
	require.True(t, ok)
	assert.Nil(t, carrera.TempleLength)
	assert.Nil(t, carrera.WholesaleCost)

	entry, err := p.catalog.FindVariant("safilo", "ROSALIE/G", "086", 50)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.TimesOrdered)
}

func TestIngestDuplicateDelivery(t *testing.T) {
	p := newPipeline(t)

	first := p.ingest.Ingest(context.Background(), "acct-1", safiloEmail())
	require.True(t, first.Success)

	second := p.ingest.Ingest(context.Background(), "acct-1", safiloEmail())
	assert.True(t, second.Success)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Zero(t, second.ItemsProcessed)

	_, total, err := p.orders.ListByAccount("acct-1", "", nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// the duplicate never re-publishes
	assert.Len(t, p.publisher.events, 1)
}

func TestIngestUnknownSenderDeadLetters(t *testing.T) {
	p := newPipeline(t)

	result := p.ingest.Ingest(context.Background(), "acct-1", domain.InboundEmail{
		Sender:   "billing@randomco.com",
		Subject:  "Your invoice is ready",
		HTMLBody: "<p>Amount due: $120.00</p>",
	})
	assert.False(t, result.Success)
	assert.True(t, result.NeedsManualReview)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "no vendor signals")

	failures, total, err := p.ingest.ListFailures("acct-1", nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, failures, 1)
	assert.Equal(t, domain.FailureManualReview, failures[0].Kind)
	assert.Equal(t, "billing@randomco.com", failures[0].Sender)
	assert.Empty(t, failures[0].VendorID)
}

func TestIngestLowConfidenceNeedsReview(t *testing.T) {
	p := newPipeline(t)

	// brand keywords alone score below the acceptance floor
	result := p.ingest.Ingest(context.Background(), "acct-1", domain.InboundEmail{
		Sender:   "orders@forwarding-relay.example.com",
		Subject:  "FW: order details",
		HTMLBody: "<p>2x CARRERA sunglasses and 1x KATE SPADE frame on the way</p>",
	})
	assert.False(t, result.Success)
	assert.True(t, result.NeedsManualReview)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "below floor")

	kind := string(domain.FailureManualReview)
	failures, total, err := p.ingest.ListFailures("acct-1", &kind, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, failures, 1)
	assert.Equal(t, "safilo", failures[0].VendorID)
	assert.Contains(t, failures[0].ScoresJSON, `"safilo":2`)
}

func TestIngestExtractionFailureDeadLetters(t *testing.T) {
	p := newPipeline(t)

	result := p.ingest.Ingest(context.Background(), "acct-1", domain.InboundEmail{
		Sender:   "noreply@safilo.com",
		Subject:  "Your Receipt for Order 220987611",
		HTMLBody: "<p>Order Number: 220987611</p><p>Your order is being processed.</p>",
	})
	assert.False(t, result.Success)
	assert.False(t, result.NeedsManualReview)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "extraction rejected")

	failures, total, err := p.ingest.ListFailures("acct-1", nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, failures, 1)
	assert.Equal(t, domain.FailureValidation, failures[0].Kind)
	assert.Equal(t, "safilo", failures[0].VendorID)
	assert.Equal(t, "noreply@safilo.com", failures[0].Sender)
}

func TestListFailuresRejectsUnknownKind(t *testing.T) {
	p := newPipeline(t)

	kind := "bogus"
	_, _, err := p.ingest.ListFailures("acct-1", &kind, 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid failure kind")
}
