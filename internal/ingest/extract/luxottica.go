package extract

import (
	"fmt"
	"strings"

	catalogdomain "optiledger-backend/internal/catalog/domain"
	"optiledger-backend/internal/ingest/domain"
	vendordomain "optiledger-backend/internal/vendors/domain"
	"optiledger-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// luxotticaExtractor parses Luxottica order acknowledgements. Their
// template renders each frame as its own two-column label/value table
// rather than one shared grid, so rows are collected per block.
type luxotticaExtractor struct{}

// NewLuxotticaExtractor creates the Luxottica strategy
func NewLuxotticaExtractor() Extractor {
	return &luxotticaExtractor{}
}

func (e *luxotticaExtractor) VendorID() string {
	return vendordomain.VendorLuxottica
}

func (e *luxotticaExtractor) Extract(input Input) (*domain.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse luxottica markup: %w", err)
	}

	ext := &domain.Extraction{}
	ext.Order.OrderNumber = FindOrderNumber(htmlutil.CompactText(doc.Selection) + " " + input.PlainText)
	if date := FindLabeled(doc, "order date"); date != "" {
		ext.Order.OrderDate = ParseOrderDate(date)
	}
	ext.Order.CustomerName = FindLabeled(doc, "account")
	ext.Order.RepName = FindLabeled(doc, "placed by")

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		// only leaf tables; a wrapper table would merge every block's
		// labels into one bogus item
		if table.Find("table").Length() > 0 {
			return
		}
		pairs := labelValuePairs(table)
		if pairs["model"] == "" {
			return
		}
		qty, ok := FirstInt(firstOf(pairs, "quantity", "qty", "pieces"))
		if !ok {
			return
		}

		code, name, lens := SplitColor(pairs["color"])
		size := firstOf(pairs, "size")
		eye, bridge, temple := ParseSize(size)
		model := modelToken(pairs["model"])

		item := domain.LineItemDraft{
			Brand:        strings.ToUpper(pairs["brand"]),
			Model:        model,
			ColorCode:    code,
			ColorName:    name,
			LensType:     lens,
			Size:         size,
			Quantity:     qty,
			InStock:      ClassifyAvailability(firstOf(pairs, "status", "availability")),
			EyeSize:      eye,
			Bridge:       bridge,
			TempleLength: temple,
		}
		item.SKU = ComposeSKU(item.Brand, model, code, eye)
		tagMeasurements(&item)
		if upc := DigitsOnly(pairs["upc"]); len(upc) >= 11 {
			item.UPC = &upc
			item.TagField("upc", string(catalogdomain.SourceEmailParse), EmailParseConfidence)
		}
		ext.Items = append(ext.Items, item)
	})

	ext.Order.TotalPieces = SumQuantities(ext.Items)
	return ext, nil
}

// labelValuePairs reads a two-column table into a lowercased label map
func labelValuePairs(table *goquery.Selection) map[string]string {
	pairs := make(map[string]string)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		if cells.Length() != 2 {
			return
		}
		label := strings.ToLower(strings.TrimSuffix(htmlutil.CompactText(cells.First()), ":"))
		if label != "" {
			pairs[label] = htmlutil.CompactText(cells.Last())
		}
	})
	return pairs
}

func firstOf(pairs map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := pairs[k]; v != "" {
			return v
		}
	}
	return ""
}

// modelToken canonicalizes a model cell like "RB2132 NEW WAYFARER" down to
// the model code the catalog is keyed by
func modelToken(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	if len(fields) > 1 && strings.ContainsAny(fields[0], "0123456789") {
		return fields[0]
	}
	return strings.Join(fields, " ")
}
