package normalizer

import (
	"regexp"
	"strings"

	"optiledger-backend/internal/ingest/domain"
	"optiledger-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Marker vocabularies per wrapper provider. Every selector here is either
// removed outright (decorative headers, signatures, dividers) or unwrapped
// (containers holding the vendor's own markup). The two must never be
// conflated: removing a quoting container would destroy the order data
// nested inside it.
const (
	gmailMarkers   = "div.gmail_quote, div.gmail_quote_container, div.gmail_attr, div.gmail_signature"
	zohoMarkers    = "div.zmail_extra, div.zmail_signature, div.zmail_extra_hr, hr.zmail_extra_hr"
	outlookMarkers = "div#divRplyFwdMsg, div.OutlookMessageHeader, div#appendonsend, o\\:p, div.WordSection1, p.MsoNormal"
)

func detectProviders(doc *goquery.Document) []domain.WrapperProvider {
	var providers []domain.WrapperProvider
	if doc.Find(gmailMarkers).Length() > 0 {
		providers = append(providers, domain.ProviderGmail)
	}
	if doc.Find(zohoMarkers).Length() > 0 {
		providers = append(providers, domain.ProviderZoho)
	}
	if doc.Find(outlookMarkers).Length() > 0 {
		providers = append(providers, domain.ProviderOutlook)
	}
	return providers
}

func cleanGmail(doc *goquery.Document) error {
	doc.Find("div.gmail_attr").Remove()
	doc.Find("div.gmail_signature_prefix").Remove()
	doc.Find("div.gmail_signature").Remove()
	htmlutil.Unwrap(doc.Find("div.gmail_quote_container"))
	htmlutil.Unwrap(doc.Find("div.gmail_quote"))
	return nil
}

func cleanZoho(doc *goquery.Document) error {
	doc.Find("div.zmail_extra_hr, hr.zmail_extra_hr").Remove()
	doc.Find("div.zmail_signature").Remove()
	htmlutil.Unwrap(doc.Find("div.zmail_extra"))
	return nil
}

func cleanOutlook(doc *goquery.Document) error {
	doc.Find("div#divRplyFwdMsg").Remove()
	doc.Find("div.OutlookMessageHeader").Remove()
	doc.Find("div#appendonsend").Remove()

	// Office paragraph marks are usually empty or a lone nbsp; drop those
	// and unwrap any that picked up real content.
	doc.Find("o\\:p").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 1 && htmlutil.IsEmptyNode(s.Nodes[0]) {
			s.Remove()
		} else {
			htmlutil.Unwrap(s)
		}
	})

	htmlutil.Unwrap(doc.Find("div.WordSection1"))
	return nil
}

func rewriteRedirects(doc *goquery.Document) error {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			if target, changed := htmlutil.DecodeRedirect(href); changed {
				s.SetAttr("href", target)
			}
		}
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			if target, changed := htmlutil.DecodeRedirect(src); changed {
				s.SetAttr("src", target)
			}
		}
	})
	return nil
}

var forwardBannerRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[-=]{2,}\s*(?:forwarded message|original message)\s*[-=]{2,}$`),
	regexp.MustCompile(`^[-=]{5,}$`),
	regexp.MustCompile(`(?i)^begin forwarded message:?$`),
}

const (
	bannerMaxLen      = 120
	headerBlockMaxLen = 400
)

// removeForwardBanners drops generic forwarding chrome that carries no
// provider marker: dashed/equals banner lines, and bordered header blocks
// holding a From:/Sent:/Subject: triple. The length guards keep a long
// message that merely quotes such text from being swallowed whole.
func removeForwardBanners(doc *goquery.Document) error {
	doc.Find("div, p, span").Each(func(_ int, s *goquery.Selection) {
		text := htmlutil.CompactText(s)
		if text == "" || len(text) > headerBlockMaxLen {
			return
		}
		if len(text) <= bannerMaxLen {
			for _, re := range forwardBannerRes {
				if re.MatchString(text) {
					s.Remove()
					return
				}
			}
		}
		if isForwardHeaderBlock(s, text) {
			s.Remove()
		}
	})
	return nil
}

func isForwardHeaderBlock(s *goquery.Selection, text string) bool {
	if !strings.Contains(text, "From:") || !strings.Contains(text, "Subject:") {
		return false
	}
	if !strings.Contains(text, "Sent:") && !strings.Contains(text, "Date:") {
		return false
	}
	style, _ := s.Attr("style")
	return strings.Contains(strings.ToLower(style), "border")
}
