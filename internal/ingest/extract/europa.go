package extract

import (
	"bytes"
	"fmt"
	"strings"

	catalogdomain "optiledger-backend/internal/catalog/domain"
	"optiledger-backend/internal/ingest/domain"
	vendordomain "optiledger-backend/internal/vendors/domain"

	"github.com/xuri/excelize/v2"
)

// europaExtractor reads Europa's order workbook. Their confirmation body is
// boilerplate; the attached .xlsx is the order: a few label/value rows
// (order number, date, customer), then a header row, then item rows.
type europaExtractor struct{}

// NewEuropaExtractor creates the Europa strategy
func NewEuropaExtractor() Extractor {
	return &europaExtractor{}
}

func (e *europaExtractor) VendorID() string {
	return vendordomain.VendorEuropa
}

func (e *europaExtractor) Extract(input Input) (*domain.Extraction, error) {
	att := findWorkbook(input.Attachments)
	if att == nil {
		return nil, fmt.Errorf("%w: europa order workbook", ErrNoAttachment)
	}

	f, err := excelize.OpenReader(bytes.NewReader(att.Data))
	if err != nil {
		return nil, fmt.Errorf("open europa workbook %s: %w", att.Filename, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("europa workbook %s has no sheets", att.Filename)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read europa workbook %s: %w", att.Filename, err)
	}

	ext := &domain.Extraction{}
	styleCol, colorCol, sizeCol, qtyCol, upcCol := -1, -1, -1, -1, -1
	inItems := false

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if !inItems {
			if ColumnIndex(row, "style", "frame") >= 0 && ColumnIndex(row, "qty", "quantity") >= 0 {
				styleCol = ColumnIndex(row, "style", "frame")
				colorCol = ColumnIndex(row, "color")
				sizeCol = ColumnIndex(row, "size")
				qtyCol = ColumnIndex(row, "qty", "quantity")
				upcCol = ColumnIndex(row, "upc")
				inItems = true
				continue
			}
			e.readHeaderPair(ext, row)
			continue
		}

		if SkipRow(row) {
			continue
		}
		style := Cell(row, styleCol)
		if style == "" {
			continue
		}
		qty, _ := FirstInt(Cell(row, qtyCol))

		brand, model := SplitBrandModel(style)
		code, name, lens := SplitColor(Cell(row, colorCol))
		size := Cell(row, sizeCol)
		eye, bridge, temple := ParseSize(size)

		item := domain.LineItemDraft{
			Brand:        brand,
			Model:        model,
			ColorCode:    code,
			ColorName:    name,
			LensType:     lens,
			Size:         size,
			Quantity:     qty,
			InStock:      true,
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
		ext.Items = append(ext.Items, item)
	}

	if ext.Order.OrderNumber == "" {
		ext.Order.OrderNumber = FindOrderNumber(input.PlainText + " " + input.HTML)
	}
	ext.Order.TotalPieces = SumQuantities(ext.Items)
	return ext, nil
}

// readHeaderPair consumes one label/value row above the item grid
func (e *europaExtractor) readHeaderPair(ext *domain.Extraction, row []string) {
	if len(row) < 2 {
		return
	}
	label := strings.ToLower(strings.TrimSpace(row[0]))
	value := strings.TrimSpace(row[1])
	if value == "" {
		return
	}
	switch {
	case strings.Contains(label, "order number"), label == "order", label == "order #":
		ext.Order.OrderNumber = DigitsOnly(value)
	case strings.Contains(label, "order date"), label == "date":
		ext.Order.OrderDate = ParseOrderDate(value)
	case strings.Contains(label, "customer"), strings.Contains(label, "account"):
		ext.Order.CustomerName = value
	case strings.Contains(label, "rep"):
		ext.Order.RepName = value
	}
}

func findWorkbook(atts []domain.Attachment) *domain.Attachment {
	for i := range atts {
		name := strings.ToLower(atts[i].Filename)
		if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm") ||
			strings.Contains(atts[i].ContentType, "spreadsheet") {
			return &atts[i]
		}
	}
	return nil
}
