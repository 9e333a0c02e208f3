package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	catalogusecase "optiledger-backend/internal/catalog/usecase"
	"optiledger-backend/internal/ingest/domain"
	"optiledger-backend/internal/ingest/extract"
	"optiledger-backend/internal/ingest/normalizer"
	"optiledger-backend/internal/ingest/repository"
	orderdomain "optiledger-backend/internal/order/domain"
	orderrepository "optiledger-backend/internal/order/repository"
	vendordomain "optiledger-backend/internal/vendors/domain"
	vendorusecase "optiledger-backend/internal/vendors/usecase"
	"optiledger-backend/pkg/events"
)

// EventPublisher announces ingested orders to downstream consumers. A nil
// publisher drops events.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event events.OrderCreated) error
}

type ingestUsecase struct {
	patterns   *vendorusecase.PatternStore
	normalizer *normalizer.Normalizer
	registry   *extract.Registry
	enricher   *catalogusecase.Enricher
	orders     orderrepository.OrderRepository
	failures   repository.FailureRepository
	publisher  EventPublisher
}

// NewIngestUsecase creates a new instance of IngestUsecase. publisher may be
// nil when eventing is not configured.
func NewIngestUsecase(
	patterns *vendorusecase.PatternStore,
	norm *normalizer.Normalizer,
	registry *extract.Registry,
	enricher *catalogusecase.Enricher,
	orders orderrepository.OrderRepository,
	failures repository.FailureRepository,
	publisher EventPublisher,
) IngestUsecase {
	return &ingestUsecase{
		patterns:   patterns,
		normalizer: norm,
		registry:   registry,
		enricher:   enricher,
		orders:     orders,
		failures:   failures,
		publisher:  publisher,
	}
}

func (u *ingestUsecase) Ingest(ctx context.Context, accountID string, email domain.InboundEmail) domain.IngestResult {
	var result domain.IngestResult

	// one snapshot per ingestion: identification and enrichment flags see
	// the same pattern state even if a refresh lands mid-run
	snapshot := u.patterns.Snapshot()

	detection := vendorusecase.Identify(snapshot, email.Sender, email.Subject, email.HTMLBody, email.PlainTextBody)
	if !detection.Resolved() {
		reason := "no vendor signals matched"
		if detection.VendorID != vendordomain.VendorUnknown {
			reason = fmt.Sprintf("vendor %s matched at confidence %d, below floor %d",
				detection.VendorID, detection.Confidence, vendordomain.ConfidenceFloor)
		}
		log.Printf("[Ingest] %s: %s (sender %s)", accountID, reason, email.Sender)
		u.deadLetter(accountID, domain.FailureManualReview, reason, email, detection)
		result.NeedsManualReview = true
		result.Failures = append(result.Failures, reason)
		return result
	}
	log.Printf("[Ingest] %s: identified %s via %s at confidence %d",
		accountID, detection.VendorID, detection.Method, detection.Confidence)

	norm := u.normalizer.Normalize(email.HTMLBody)

	ext, err := u.registry.Extract(detection.VendorID, extract.Input{
		HTML:        norm.CleanedHTML,
		PlainText:   email.PlainTextBody,
		Attachments: email.Attachments,
	})
	if err != nil {
		reason := fmt.Sprintf("extraction rejected: %v", err)
		log.Printf("[Ingest] %s: %s: %s", accountID, detection.VendorID, reason)
		u.deadLetter(accountID, domain.FailureValidation, reason, email, detection)
		result.Failures = append(result.Failures, reason)
		return result
	}

	existing, err := u.orders.FindByNaturalKey(accountID, ext.Order.OrderNumber)
	if err != nil {
		reason := fmt.Sprintf("order lookup failed: %v", err)
		log.Printf("[Ingest] %s: %s", accountID, reason)
		result.Failures = append(result.Failures, reason)
		return result
	}
	if existing != nil {
		log.Printf("[Ingest] %s: order %s already ingested as %s",
			accountID, ext.Order.OrderNumber, existing.ID)
		result.Success = true
		result.Duplicate = true
		result.OrderID = existing.ID
		return result
	}

	order := &orderdomain.Order{
		AccountID:           accountID,
		VendorID:            detection.VendorID,
		OrderNumber:         ext.Order.OrderNumber,
		OrderDate:           ext.Order.OrderDate,
		CustomerName:        ext.Order.CustomerName,
		RepName:             ext.Order.RepName,
		TotalPieces:         ext.Order.TotalPieces,
		Status:              orderdomain.OrderStatusPending,
		DetectionMethod:     string(detection.Method),
		DetectionConfidence: detection.Confidence,
	}
	items := make([]orderdomain.LineItem, len(ext.Items))
	for i := range ext.Items {
		items[i] = draftToLineItem(&ext.Items[i])
	}

	if err := u.orders.InsertWithItems(order, items); err != nil {
		if errors.Is(err, orderrepository.ErrDuplicateOrder) {
			// a concurrent delivery of the same email won the insert race
			log.Printf("[Ingest] %s: lost insert race for order %s", accountID, ext.Order.OrderNumber)
			if winner, ferr := u.orders.FindByNaturalKey(accountID, ext.Order.OrderNumber); ferr == nil && winner != nil {
				result.OrderID = winner.ID
			}
			result.Success = true
			result.Duplicate = true
			return result
		}
		reason := fmt.Sprintf("order insert failed: %v", err)
		log.Printf("[Ingest] %s: %s", accountID, reason)
		result.Failures = append(result.Failures, reason)
		return result
	}
	log.Printf("[Ingest] %s: created order %s (%s %s, %d items)",
		accountID, order.ID, order.VendorID, order.OrderNumber, len(items))

	result.Success = true
	result.OrderID = order.ID
	result.ItemsProcessed = len(items)

	// enrichment is a follow-up to already-persisted items, never a
	// precondition for the order existing
	if u.enricher != nil {
		if pattern := findPattern(snapshot, detection.VendorID); pattern != nil {
			notes := u.enricher.Enrich(ctx, pattern, u.siteFetcher(detection.VendorID), ext.Items)
			result.Failures = append(result.Failures, notes...)
			u.applyEnrichment(items, ext.Items)
		}
	}

	if u.publisher != nil {
		event := events.OrderCreated{
			AccountID:   accountID,
			OrderID:     order.ID,
			VendorID:    order.VendorID,
			OrderNumber: order.OrderNumber,
			ItemCount:   len(items),
		}
		if err := u.publisher.PublishOrderCreated(ctx, event); err != nil {
			log.Printf("[Ingest] publish order.created for %s: %v", order.ID, err)
		}
	}

	return result
}

func (u *ingestUsecase) ListFailures(accountID string, kind *string, limit, offset int) ([]*domain.IngestFailure, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var kindFilter *domain.FailureKind
	if kind != nil && *kind != "" {
		k := domain.FailureKind(*kind)
		if k != domain.FailureManualReview && k != domain.FailureValidation {
			return nil, 0, errors.New("invalid failure kind")
		}
		kindFilter = &k
	}
	return u.failures.ListByAccount(accountID, kindFilter, limit, offset)
}

// deadLetter records one email's exit from the pipeline. A write failure is
// logged but never escalated; the ingest result already carries the reason.
func (u *ingestUsecase) deadLetter(accountID string, kind domain.FailureKind, reason string, email domain.InboundEmail, detection vendordomain.DetectionResult) {
	failure := &domain.IngestFailure{
		AccountID: accountID,
		Kind:      kind,
		Reason:    reason,
		Sender:    email.Sender,
		Subject:   email.Subject,
	}
	if detection.VendorID != vendordomain.VendorUnknown {
		failure.VendorID = detection.VendorID
	}
	if len(detection.Scores) > 0 {
		if data, err := json.Marshal(detection.Scores); err == nil {
			failure.ScoresJSON = string(data)
		}
	}
	if err := u.failures.Create(failure); err != nil {
		log.Printf("[Ingest] %s: dead letter write failed: %v", accountID, err)
	}
}

// siteFetcher discovers the optional catalog-lookup capability on the
// vendor's registered extraction strategy
func (u *ingestUsecase) siteFetcher(vendorID string) catalogusecase.SiteFetcher {
	strategy, ok := u.registry.Strategy(vendorID)
	if !ok {
		return nil
	}
	fetcher, _ := strategy.(catalogusecase.SiteFetcher)
	return fetcher
}

// applyEnrichment writes attributes the enricher filled back onto the
// persisted line items. Rows line up with drafts positionally because
// InsertWithItems creates them in slice order.
func (u *ingestUsecase) applyEnrichment(items []orderdomain.LineItem, drafts []domain.LineItemDraft) {
	for i := range items {
		if i >= len(drafts) {
			return
		}
		updates := enrichmentUpdates(&items[i], &drafts[i])
		if len(updates) == 0 {
			continue
		}
		if err := u.orders.UpdateItemAttributes(items[i].ID, updates); err != nil {
			log.Printf("[Ingest] update item %s attributes: %v", items[i].ID, err)
		}
	}
}

// enrichmentUpdates diffs a pre-enrichment row against its enriched draft.
// Only fields the enricher newly filled are written; nothing the email
// supplied is ever touched again.
func enrichmentUpdates(item *orderdomain.LineItem, draft *domain.LineItemDraft) map[string]interface{} {
	updates := make(map[string]interface{})
	if item.UPC == nil && draft.UPC != nil {
		updates["upc"] = *draft.UPC
	}
	if item.EyeSize == nil && draft.EyeSize != nil {
		updates["eye_size"] = *draft.EyeSize
	}
	if item.Bridge == nil && draft.Bridge != nil {
		updates["bridge"] = *draft.Bridge
	}
	if item.TempleLength == nil && draft.TempleLength != nil {
		updates["temple_length"] = *draft.TempleLength
	}
	if item.WholesaleCost == nil && draft.WholesaleCost != nil {
		updates["wholesale_cost"] = *draft.WholesaleCost
	}
	if item.Brand == "" && draft.Brand != "" {
		updates["brand"] = draft.Brand
	}
	if item.ColorName == "" && draft.ColorName != "" {
		updates["color_name"] = draft.ColorName
	}
	return updates
}

func draftToLineItem(d *domain.LineItemDraft) orderdomain.LineItem {
	return orderdomain.LineItem{
		SKU:           d.SKU,
		Brand:         d.Brand,
		Model:         d.Model,
		ColorCode:     d.ColorCode,
		ColorName:     d.ColorName,
		LensType:      d.LensType,
		Size:          d.Size,
		Quantity:      d.Quantity,
		Status:        orderdomain.ItemStatusPending,
		Received:      orderdomain.ReceivedUnset,
		UPC:           d.UPC,
		EyeSize:       d.EyeSize,
		Bridge:        d.Bridge,
		TempleLength:  d.TempleLength,
		WholesaleCost: d.WholesaleCost,
		InStock:       d.InStock,
	}
}

func findPattern(snapshot []vendordomain.VendorPattern, vendorID string) *vendordomain.VendorPattern {
	for i := range snapshot {
		if snapshot[i].VendorID == vendorID {
			return &snapshot[i]
		}
	}
	return nil
}
