package extract

import (
	"context"
	"fmt"
	"strings"

	catalogdomain "optiledger-backend/internal/catalog/domain"
	"optiledger-backend/internal/ingest/domain"
	vendordomain "optiledger-backend/internal/vendors/domain"
	"optiledger-backend/pkg/htmlutil"
	"optiledger-backend/pkg/vendorsite"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// EmailParseConfidence is attached to attributes read straight off the
// vendor's own confirmation email
const EmailParseConfidence = 80

// safiloExtractor parses Safilo "Your Receipt for Order" confirmations:
// one header-labeled HTML table with style, color, size, quantity and
// availability columns.
type safiloExtractor struct {
	site *vendorsite.SafiloCatalog
}

// NewSafiloExtractor creates the Safilo strategy. site may be nil, which
// disables catalog fetching but not extraction.
func NewSafiloExtractor(site *vendorsite.SafiloCatalog) Extractor {
	return &safiloExtractor{site: site}
}

func (e *safiloExtractor) VendorID() string {
	return vendordomain.VendorSafilo
}

func (e *safiloExtractor) Extract(input Input) (*domain.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse safilo markup: %w", err)
	}

	ext := &domain.Extraction{}
	ext.Order.OrderNumber = FindOrderNumber(htmlutil.CompactText(doc.Selection) + " " + input.PlainText)
	if date := FindLabeled(doc, "order date"); date != "" {
		ext.Order.OrderDate = ParseOrderDate(date)
	}
	ext.Order.RepName = FindLabeled(doc, "sales rep")
	ext.Order.CustomerName = FindLabeled(doc, "ship to")

	ext.Items = e.extractItems(doc)
	ext.Order.TotalPieces = SumQuantities(ext.Items)
	return ext, nil
}

func (e *safiloExtractor) extractItems(doc *goquery.Document) []domain.LineItemDraft {
	var items []domain.LineItemDraft

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := TableRows(table)
		if len(rows) < 2 {
			return true
		}
		header := rows[0]
		styleCol := ColumnIndex(header, "style")
		qtyCol := ColumnIndex(header, "qty", "quantity")
		if styleCol < 0 || qtyCol < 0 {
			return true
		}
		colorCol := ColumnIndex(header, "color")
		sizeCol := ColumnIndex(header, "size")
		availCol := ColumnIndex(header, "avail", "status")
		upcCol := ColumnIndex(header, "upc")

		for _, row := range rows[1:] {
			if SkipRow(row) {
				continue
			}
			style := Cell(row, styleCol)
			if style == "" {
				continue
			}

			brand, model := SplitBrandModel(style)
			code, name, lens := SplitColor(Cell(row, colorCol))
			size := Cell(row, sizeCol)
			eye, bridge, temple := ParseSize(size)
			qty, _ := FirstInt(Cell(row, qtyCol))

			item := domain.LineItemDraft{
				Brand:        brand,
				Model:        model,
				ColorCode:    code,
				ColorName:    name,
				LensType:     lens,
				Size:         size,
				Quantity:     qty,
				InStock:      ClassifyAvailability(Cell(row, availCol)),
				EyeSize:      eye,
				Bridge:       bridge,
				TempleLength: temple,
			}
			item.SKU = ComposeSKU(brand, model, code, eye)
			tagMeasurements(&item)
			if upc := DigitsOnly(Cell(row, upcCol)); len(upc) >= 11 {
				item.UPC = &upc
				item.TagField("upc", string(catalogdomain.SourceEmailParse), EmailParseConfidence)
			}
			items = append(items, item)
		}
		// keep scanning only while no product table matched
		return len(items) == 0
	})

	return items
}

// tagMeasurements records email provenance for whichever size fields the
// row actually carried
func tagMeasurements(item *domain.LineItemDraft) {
	if item.EyeSize != nil {
		item.TagField("eye_size", string(catalogdomain.SourceEmailParse), EmailParseConfidence)
	}
	if item.Bridge != nil {
		item.TagField("bridge", string(catalogdomain.SourceEmailParse), EmailParseConfidence)
	}
	if item.TempleLength != nil {
		item.TagField("temple_length", string(catalogdomain.SourceEmailParse), EmailParseConfidence)
	}
}

// WebScrapeConfidence is attached to attributes read off the vendor's own
// catalog site, which outranks what an email table carries
const WebScrapeConfidence = 90

// FetchCatalog looks the item up on Safilo's public catalog site. Safilo
// publishes wholesale-facing frame pages, so this strategy carries the
// CatalogFetcher capability.
func (e *safiloExtractor) FetchCatalog(ctx context.Context, item domain.LineItemDraft) (*catalogdomain.CatalogEntry, error) {
	if e.site == nil {
		// scraping not configured; report a miss, not a failure
		return nil, nil
	}

	frame, err := e.site.LookupFrame(ctx, item.Brand, item.Model, item.ColorCode, item.EyeSize)
	if err != nil || frame == nil {
		return nil, err
	}

	// key the entry by the item's own identifiers so the next order for
	// this variant probes straight into it
	entry := &catalogdomain.CatalogEntry{
		VendorID:        vendordomain.VendorSafilo,
		Brand:           item.Brand,
		Model:           item.Model,
		ColorCode:       item.ColorCode,
		ColorName:       item.ColorName,
		Bridge:          frame.Bridge,
		TempleLength:    frame.TempleLength,
		ConfidenceScore: WebScrapeConfidence,
		DataSource:      catalogdomain.SourceWebScrape,
	}
	if entry.Brand == "" {
		entry.Brand = frame.Brand
	}
	if entry.ColorCode == "" {
		entry.ColorCode = frame.ColorCode
	}
	if entry.ColorName == "" {
		entry.ColorName = frame.ColorName
	}
	if item.EyeSize != nil {
		entry.EyeSize = *item.EyeSize
	} else if frame.EyeSize != nil {
		entry.EyeSize = *frame.EyeSize
	}
	if frame.UPC != "" {
		upc := frame.UPC
		entry.UPC = &upc
	}
	if frame.WholesalePrice != "" {
		if price, perr := decimal.NewFromString(frame.WholesalePrice); perr == nil {
			entry.WholesalePrice = &price
		}
	}
	return entry, nil
}
