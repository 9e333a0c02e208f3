package normalizer

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"optiledger-backend/internal/ingest/domain"

	"github.com/PuerkitoBio/goquery"
)

// Pre-DOM passes. Conditional comment blocks and namespace declarations
// from Word-generated markup cannot be represented faithfully by an HTML5
// parser, so they are stripped from the raw string before parsing.
var (
	msoConditionalRe = regexp.MustCompile(`(?is)<!--\[if[^\]]*\]>.*?<!\[endif\]\s*-->`)
	msoRevealedRe    = regexp.MustCompile(`(?i)<!\[(?:if[^\]]*|endif)\]>`)
	xmlDeclRe        = regexp.MustCompile(`(?is)<\?xml[^>]*\?>|<xml[^>]*>.*?</xml>`)
	xmlnsAttrRe      = regexp.MustCompile(`(?i)\s+xmlns(?::[\w-]+)?="[^"]*"`)

	crlfRe     = regexp.MustCompile(`\r\n?`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
	interTagRe = regexp.MustCompile(`>\s+<`)
)

// Normalizer strips mail-client wrapper markup from forwarded vendor
// emails so the extraction strategies see stable vendor HTML
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

type step struct {
	name string
	fn   func(doc *goquery.Document) error
}

// Normalize cleans one email body. Every cleanup step is isolated: a step
// that fails on malformed markup is logged and skipped, leaving its input
// untouched, and never aborts the rest of the pipeline.
func (n *Normalizer) Normalize(rawHTML string) domain.NormalizedEmail {
	out := domain.NormalizedEmail{OriginalHTML: rawHTML}

	cleaned := msoConditionalRe.ReplaceAllString(rawHTML, "")
	cleaned = msoRevealedRe.ReplaceAllString(cleaned, "")
	cleaned = xmlDeclRe.ReplaceAllString(cleaned, "")
	cleaned = xmlnsAttrRe.ReplaceAllString(cleaned, "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err != nil {
		log.Printf("[Normalizer] parse failed, passing markup through: %v", err)
		out.CleanedHTML = collapseWhitespace(cleaned)
		out.Reduction = domain.ReductionMetadata{OriginalLength: len(rawHTML), CleanedLength: len(out.CleanedHTML)}
		return out
	}

	out.Providers = detectProviders(doc)

	steps := []step{}
	for _, p := range out.Providers {
		switch p {
		case domain.ProviderGmail:
			steps = append(steps, step{"gmail_cleanup", cleanGmail})
		case domain.ProviderZoho:
			steps = append(steps, step{"zoho_cleanup", cleanZoho})
		case domain.ProviderOutlook:
			steps = append(steps, step{"outlook_cleanup", cleanOutlook})
		}
	}
	steps = append(steps,
		step{"rewrite_redirects", rewriteRedirects},
		step{"remove_forward_banners", removeForwardBanners},
	)

	for _, s := range steps {
		if err := runStep(s, doc); err != nil {
			log.Printf("[Normalizer] step %s skipped: %v", s.name, err)
		}
	}

	body, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(body) == "" {
		if err != nil {
			log.Printf("[Normalizer] serialize failed, passing markup through: %v", err)
		}
		body = cleaned
	}

	out.CleanedHTML = collapseWhitespace(body)
	out.Reduction = domain.ReductionMetadata{OriginalLength: len(rawHTML), CleanedLength: len(out.CleanedHTML)}
	return out
}

// runStep guards one mutation pass; malformed fragments must degrade to a
// skipped step, never abort the ingestion
func runStep(s step, doc *goquery.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.fn(doc)
}

func collapseWhitespace(s string) string {
	s = crlfRe.ReplaceAllString(s, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = interTagRe.ReplaceAllString(s, "><")
	return strings.TrimSpace(s)
}
