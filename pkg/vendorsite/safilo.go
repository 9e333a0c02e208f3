package vendorsite

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"optiledger-backend/pkg/fuzzy"
	"optiledger-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Frame is one scraped catalog observation
type Frame struct {
	Brand          string
	Model          string
	ColorCode      string
	ColorName      string
	EyeSize        *int
	Bridge         *int
	TempleLength   *int
	UPC            string
	WholesalePrice string
}

// Collections checked when an order line does not name a brand the site
// knows. Ordered by how often their frames show up in orders.
var safiloCollections = []string{"carrera", "safilo", "polaroid", "kate-spade", "boss"}

var safiloBrandSlugs = map[string]string{
	"CARRERA":        "carrera",
	"SAFILO":         "safilo",
	"POLAROID":       "polaroid",
	"KATE SPADE":     "kate-spade",
	"BOSS":           "boss",
	"HUGO BOSS":      "boss",
	"TOMMY HILFIGER": "tommy-hilfiger",
}

// SafiloCatalog scrapes Safilo's public collection pages for frame
// attributes missing from an order email
type SafiloCatalog struct {
	client  *Client
	baseURL string
}

// NewSafiloCatalog creates a catalog lookup against the given site root
func NewSafiloCatalog(client *Client, baseURL string) *SafiloCatalog {
	return &SafiloCatalog{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// LookupFrame walks the known collections until a product tile matches the
// model. A miss is (nil, nil): the site simply does not list the frame.
// Page failures are logged per collection and the walk continues, so one
// bad page never sinks the lookup.
func (s *SafiloCatalog) LookupFrame(ctx context.Context, brand, model, colorCode string, eye *int) (*Frame, error) {
	if strings.TrimSpace(model) == "" {
		return nil, nil
	}

	collections := safiloCollections
	if slug, ok := safiloBrandSlugs[strings.ToUpper(strings.TrimSpace(brand))]; ok {
		collections = append([]string{slug}, collections...)
	}

	seen := make(map[string]bool, len(collections))
	for _, collection := range collections {
		if seen[collection] {
			continue
		}
		seen[collection] = true

		frame, err := s.scanCollection(ctx, collection, model, colorCode, eye)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[VendorSite] safilo collection %s: %v", collection, err)
			continue
		}
		if frame != nil {
			return frame, nil
		}
	}
	return nil, nil
}

func (s *SafiloCatalog) scanCollection(ctx context.Context, collection, model, colorCode string, eye *int) (*Frame, error) {
	doc, err := s.client.GetDocument(ctx, s.baseURL+"/collections/"+collection)
	if err != nil {
		return nil, err
	}

	var match *Frame
	doc.Find(".product-tile").EachWithBreak(func(_ int, tile *goquery.Selection) bool {
		name := htmlutil.CompactText(tile.Find(".product-name"))
		if !fuzzy.ModelEquivalent(model, name) {
			return true
		}
		color := htmlutil.CompactText(tile.Find(".product-color"))
		if colorCode != "" && !strings.Contains(strings.ToUpper(color), strings.ToUpper(colorCode)) {
			return true
		}

		frame := parseTile(tile, name, color)
		// when the order names an eye size, only that size variant counts
		if eye != nil && frame.EyeSize != nil && *frame.EyeSize != *eye {
			return true
		}
		match = frame
		return false
	})
	return match, nil
}

var tileSizeRe = regexp.MustCompile(`(\d{2})\D+(\d{2})(?:\D+(\d{3}))?`)

func parseTile(tile *goquery.Selection, name, color string) *Frame {
	frame := &Frame{}

	fields := strings.Fields(name)
	if len(fields) > 1 {
		frame.Brand = strings.Join(fields[:len(fields)-1], " ")
		frame.Model = fields[len(fields)-1]
	} else {
		frame.Model = name
	}

	colorFields := strings.Fields(color)
	if len(colorFields) > 0 {
		frame.ColorCode = colorFields[0]
		frame.ColorName = strings.Join(colorFields[1:], " ")
		if i := strings.Index(frame.ColorName, " - "); i >= 0 {
			frame.ColorName = frame.ColorName[:i]
		}
	}

	if m := tileSizeRe.FindStringSubmatch(htmlutil.CompactText(tile.Find(".product-size"))); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			frame.EyeSize = &v
		}
		if v, err := strconv.Atoi(m[2]); err == nil {
			frame.Bridge = &v
		}
		if m[3] != "" {
			if v, err := strconv.Atoi(m[3]); err == nil {
				frame.TempleLength = &v
			}
		}
	}

	if upc := strings.Map(keepDigit, htmlutil.CompactText(tile.Find(".product-upc"))); len(upc) >= 11 {
		frame.UPC = upc
	}
	if price := htmlutil.CompactText(tile.Find(".product-price")); price != "" {
		frame.WholesalePrice = strings.TrimSpace(strings.Map(keepPriceRune, price))
	}
	return frame
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

func keepPriceRune(r rune) rune {
	if r >= '0' && r <= '9' || r == '.' {
		return r
	}
	return -1
}
