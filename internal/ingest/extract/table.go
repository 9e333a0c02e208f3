package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"optiledger-backend/internal/ingest/domain"
	"optiledger-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Shared field parsers. Vendor layouts differ but their cell contents rhyme:
// compound style strings, code-prefixed colors, slash-separated sizes.

var (
	orderNumberRe = regexp.MustCompile(`(?i)\border\s*(?:number|no\.?|confirmation|id)?\s*[:#]{0,2}\s*([0-9]{6,})`)
	intRe         = regexp.MustCompile(`-?\d+`)
	digitRunRe    = regexp.MustCompile(`\d+`)
	separatorRe   = regexp.MustCompile(`^[-=_\s|+*]+$`)
)

// FindOrderNumber pulls the first order number out of free text
func FindOrderNumber(text string) string {
	if m := orderNumberRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// SplitBrandModel splits a compound style cell like "CARRERA - 8053/CS"
// into brand and model. Cells without a separator are all model.
func SplitBrandModel(s string) (brand, model string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " - "); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+3:])
	}
	return "", s
}

// SplitColor splits a color cell like "003 MATTE BLACK - POLARIZED GRAY"
// into code, name and lens description. The leading token is a code only
// when it looks like one; "MATTE BLACK" alone stays a bare name.
func SplitColor(s string) (code, name, lens string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " - "); i >= 0 {
		lens = strings.TrimSpace(s[i+3:])
		s = strings.TrimSpace(s[:i])
	}
	fields := strings.Fields(s)
	if len(fields) > 0 && looksLikeColorCode(fields[0]) {
		code = fields[0]
		name = strings.Join(fields[1:], " ")
		return
	}
	name = s
	return
}

// looksLikeColorCode accepts short uppercase alphanumeric tokens that carry
// at least one digit, e.g. 003, 807, 0086, J5G
func looksLikeColorCode(tok string) bool {
	if len(tok) < 2 || len(tok) > 6 {
		return false
	}
	hasDigit := false
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return hasDigit
}

// ParseSize reads "54/18" or "54-18-140" style size strings. Eye and bridge
// are two-digit millimeter values, temple three digits; anything else in the
// cell is left unparsed rather than guessed.
func ParseSize(s string) (eye, bridge, temple *int) {
	nums := digitRunRe.FindAllString(s, -1)
	if len(nums) >= 1 && len(nums[0]) == 2 {
		if v, err := strconv.Atoi(nums[0]); err == nil {
			eye = &v
		}
	}
	if len(nums) >= 2 && len(nums[1]) == 2 {
		if v, err := strconv.Atoi(nums[1]); err == nil {
			bridge = &v
		}
	}
	if len(nums) >= 3 && len(nums[2]) == 3 {
		if v, err := strconv.Atoi(nums[2]); err == nil {
			temple = &v
		}
	}
	return
}

// ClassifyAvailability maps a row's availability text to an in-stock flag.
// Empty cells mean in stock; only explicit back-order language clears it.
func ClassifyAvailability(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return true
	}
	for _, marker := range []string{"back-order", "backorder", "back order", "b/o", "b.o.", "oos", "out of stock", "unavailable", "discontinued"} {
		if strings.Contains(t, marker) {
			return false
		}
	}
	return true
}

var skipRowMarkers = []string{
	"displays / pop", "display / pop", "displays/pop",
	"subtotal", "order total", "total pieces", "total qty",
	"freight", "shipping & handling", "thank you for your order",
}

// SkipRow reports whether a table row is a header, separator, or
// non-product notice rather than a line item
func SkipRow(cells []string) bool {
	text := strings.ToLower(strings.TrimSpace(strings.Join(cells, " ")))
	if text == "" {
		return true
	}
	if separatorRe.MatchString(text) {
		return true
	}
	if strings.Contains(text, "qty") || strings.Contains(text, "pieces") {
		for _, h := range []string{"style", "model", "frame", "description"} {
			if strings.Contains(text, h) {
				return true
			}
		}
	}
	for _, marker := range skipRowMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// FirstInt pulls the first integer out of a cell
func FirstInt(s string) (int, bool) {
	m := intRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	return v, err == nil
}

// DigitsOnly strips everything but digits, for UPC cells
func DigitsOnly(s string) string {
	return strings.Join(digitRunRe.FindAllString(s, -1), "")
}

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Monday, January 2, 2006",
}

// ParseOrderDate tries the date formats vendors actually send
func ParseOrderDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ComposeSKU builds a stable SKU for vendors that do not send one
func ComposeSKU(brand, model, colorCode string, eye *int) string {
	var parts []string
	for _, p := range []string{brand, model, colorCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if eye != nil {
		parts = append(parts, strconv.Itoa(*eye))
	}
	return strings.Join(parts, "-")
}

// FindLabeled returns the value following "label:" in the smallest element
// carrying it, so a page-level container never swallows the lookup
func FindLabeled(doc *goquery.Document, label string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `\s*:\s*(.+)$`)
	best := ""
	bestLen := 0
	doc.Find("td, th, p, div, span, li").Each(func(_ int, s *goquery.Selection) {
		text := htmlutil.CompactText(s)
		if text == "" || len(text) > 160 {
			return
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			return
		}
		if best == "" || len(text) < bestLen {
			best = strings.TrimSpace(m[1])
			bestLen = len(text)
		}
	})
	return best
}

// FindLabeledText is the plaintext counterpart of FindLabeled: the value
// after "label:" at the start of a line
func FindLabeledText(text, label string) string {
	re := regexp.MustCompile(`(?im)^\s*` + regexp.QuoteMeta(label) + `\s*[:#]\s*(.+)$`)
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// TableRows flattens an HTML table into per-row cell text
func TableRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, htmlutil.CompactText(cell))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

// ColumnIndex finds the first header cell containing any of the names,
// -1 when the table has no such column
func ColumnIndex(header []string, names ...string) int {
	for i, cell := range header {
		c := strings.ToLower(cell)
		for _, n := range names {
			if strings.Contains(c, n) {
				return i
			}
		}
	}
	return -1
}

// Cell returns row[i] when present, "" otherwise
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// SumQuantities totals the pieces across drafts
func SumQuantities(items []domain.LineItemDraft) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
