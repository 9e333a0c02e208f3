package extract

import (
	"fmt"
	"strings"

	"optiledger-backend/internal/ingest/domain"
	vendordomain "optiledger-backend/internal/vendors/domain"
	"optiledger-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// modernOpticalExtractor parses Modern Optical confirmations. Their
// template is a bare four-column table with no header row: frame, color,
// eye size, quantity, in fixed positions.
type modernOpticalExtractor struct{}

// NewModernOpticalExtractor creates the Modern Optical strategy
func NewModernOpticalExtractor() Extractor {
	return &modernOpticalExtractor{}
}

func (e *modernOpticalExtractor) VendorID() string {
	return vendordomain.VendorModernOptical
}

func (e *modernOpticalExtractor) Extract(input Input) (*domain.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse modern optical markup: %w", err)
	}

	ext := &domain.Extraction{}
	ext.Order.OrderNumber = FindOrderNumber(htmlutil.CompactText(doc.Selection) + " " + input.PlainText)
	if date := FindLabeled(doc, "order date"); date != "" {
		ext.Order.OrderDate = ParseOrderDate(date)
	}
	ext.Order.CustomerName = FindLabeled(doc, "account name")
	if ext.Order.CustomerName == "" {
		ext.Order.CustomerName = FindLabeled(doc, "account")
	}

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if table.Find("table").Length() > 0 {
			return true
		}
		for _, row := range TableRows(table) {
			if len(row) != 4 || SkipRow(row) {
				continue
			}
			qty, ok := FirstInt(row[3])
			if !ok {
				continue
			}
			style := strings.TrimSpace(row[0])
			if style == "" {
				continue
			}

			brand, model := SplitBrandModel(style)
			code, name, _ := SplitColor(row[1])
			eye, _, _ := ParseSize(row[2])

			item := domain.LineItemDraft{
				Brand:     brand,
				Model:     model,
				ColorCode: code,
				ColorName: name,
				Size:      strings.TrimSpace(row[2]),
				Quantity:  qty,
				InStock:   true,
				EyeSize:   eye,
			}
			item.SKU = ComposeSKU(brand, model, code, eye)
			tagMeasurements(&item)
			ext.Items = append(ext.Items, item)
		}
		return len(ext.Items) == 0
	})

	ext.Order.TotalPieces = SumQuantities(ext.Items)
	return ext, nil
}
