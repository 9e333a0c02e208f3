package extract

import (
	"regexp"
	"strconv"
	"strings"

	"optiledger-backend/internal/ingest/domain"
	vendordomain "optiledger-backend/internal/vendors/domain"

	"github.com/PuerkitoBio/goquery"
)

// Marchon sends plaintext confirmations, one item per line:
//
//	Qty 2  Style: FLEXON - B2037  Color: 412 NAVY  Size: 52/18
var marchonRowRe = regexp.MustCompile(`(?im)^\s*qty\s+(\d+)\s+style:\s*(.+?)\s{2,}color:\s*(.+?)\s{2,}size:\s*(\S+)\s*(.*)$`)

// marchonExtractor parses Marchon's plaintext order confirmations
type marchonExtractor struct{}

// NewMarchonExtractor creates the Marchon strategy
func NewMarchonExtractor() Extractor {
	return &marchonExtractor{}
}

func (e *marchonExtractor) VendorID() string {
	return vendordomain.VendorMarchon
}

func (e *marchonExtractor) Extract(input Input) (*domain.Extraction, error) {
	text := input.PlainText
	if strings.TrimSpace(text) == "" {
		// retailers sometimes forward the text body wrapped in minimal HTML
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(input.HTML)); err == nil {
			text = doc.Text()
		}
	}

	ext := &domain.Extraction{}
	ext.Order.OrderNumber = FindOrderNumber(text)
	ext.Order.CustomerName = FindLabeledText(text, "customer")
	ext.Order.RepName = FindLabeledText(text, "rep")
	if d := FindLabeledText(text, "date"); d != "" {
		ext.Order.OrderDate = ParseOrderDate(d)
	}

	for _, m := range marchonRowRe.FindAllStringSubmatch(text, -1) {
		qty, _ := strconv.Atoi(m[1])
		brand, model := SplitBrandModel(m[2])
		code, name, lens := SplitColor(m[3])
		size := m[4]
		eye, bridge, temple := ParseSize(size)

		item := domain.LineItemDraft{
			Brand:        brand,
			Model:        model,
			ColorCode:    code,
			ColorName:    name,
			LensType:     lens,
			Size:         size,
			Quantity:     qty,
			InStock:      ClassifyAvailability(m[5]),
			EyeSize:      eye,
			Bridge:       bridge,
			TempleLength: temple,
		}
		item.SKU = ComposeSKU(brand, model, code, eye)
		tagMeasurements(&item)
		ext.Items = append(ext.Items, item)
	}

	ext.Order.TotalPieces = SumQuantities(ext.Items)
	return ext, nil
}
