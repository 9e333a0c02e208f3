package usecase

import (
	"strings"

	vendordomain "optiledger-backend/internal/vendors/domain"
)

// Identify resolves which vendor sent an email, evaluating three evidence
// tiers strictly in order and short-circuiting on the first hit:
//
//  1. sender domain exactly matching a configured tier-1 domain,
//  2. a strong signature substring anywhere in the body,
//  3. weak subject/body keywords, counted per vendor against its
//     configured minimum.
//
// Domain evidence is definitive: once tier 1 matches, lower tiers are never
// consulted, so body content can never override the sending domain. The
// function is pure over the pattern snapshot and performs no I/O.
func Identify(patterns []vendordomain.VendorPattern, sender, subject, bodyHTML, bodyText string) vendordomain.DetectionResult {
	senderDomain := extractDomain(sender)

	// Tier 1: exact domain match.
	if senderDomain != "" {
		for _, p := range patterns {
			for _, d := range p.Tier1Domains {
				if senderDomain == strings.ToLower(d) {
					return finish(vendordomain.DetectionResult{
						VendorID:   p.VendorID,
						Confidence: p.Tier1Weight,
						Method:     vendordomain.MethodDomain,
						Signals:    vendordomain.MatchedSignals{Domain: senderDomain},
					})
				}
			}
		}
	}

	body := strings.ToLower(bodyHTML + "\n" + bodyText)
	subj := strings.ToLower(subject)

	// Tier 2: strong body signatures. First vendor with any hit wins.
	for _, p := range patterns {
		var hits []string
		for _, sig := range p.Tier2Signatures {
			if sig != "" && strings.Contains(body, strings.ToLower(sig)) {
				hits = append(hits, sig)
			}
		}
		if len(hits) > 0 {
			return finish(vendordomain.DetectionResult{
				VendorID:   p.VendorID,
				Confidence: p.Tier2Weight,
				Method:     vendordomain.MethodBodySignature,
				Signals:    vendordomain.MatchedSignals{Signatures: hits},
			})
		}
	}

	// Tier 3: weak keyword counting across subject and body combined.
	scores := make(map[string]int, len(patterns))
	var best *vendordomain.VendorPattern
	var bestCount int
	var bestSignals vendordomain.MatchedSignals

	for i, p := range patterns {
		var signals vendordomain.MatchedSignals
		count := 0
		for _, kw := range p.Tier3SubjectKeywords {
			if kw != "" && strings.Contains(subj, strings.ToLower(kw)) {
				count++
				signals.SubjectKeywords = append(signals.SubjectKeywords, kw)
			}
		}
		for _, kw := range p.Tier3BodyKeywords {
			if kw != "" && strings.Contains(body, strings.ToLower(kw)) {
				count++
				signals.BodyKeywords = append(signals.BodyKeywords, kw)
			}
		}
		scores[p.VendorID] = count

		if count >= p.Tier3RequiredMatches && count > bestCount {
			best = &patterns[i]
			bestCount = count
			bestSignals = signals
		}
	}

	if best != nil {
		r := vendordomain.DetectionResult{
			VendorID:   best.VendorID,
			Confidence: best.Tier3Weight,
			Method:     vendordomain.MethodWeakPatterns,
			Signals:    bestSignals,
		}
		if r.Confidence < vendordomain.ConfidenceFloor {
			r.NeedsManualReview = true
			r.Scores = scores
		}
		return r
	}

	return vendordomain.DetectionResult{
		VendorID:          vendordomain.VendorUnknown,
		Confidence:        0,
		Method:            vendordomain.MethodNone,
		NeedsManualReview: true,
		Scores:            scores,
	}
}

// finish applies the global confidence floor to a tier-resolved result.
func finish(r vendordomain.DetectionResult) vendordomain.DetectionResult {
	if r.Confidence < vendordomain.ConfidenceFloor {
		r.NeedsManualReview = true
	}
	return r
}

// extractDomain pulls the lowercased domain out of a sender value, which
// may be a bare address or a display-name form like
// "Safilo Orders <noreply@safilo.com>".
func extractDomain(sender string) string {
	s := strings.TrimSpace(sender)
	if start := strings.LastIndex(s, "<"); start >= 0 {
		if end := strings.Index(s[start:], ">"); end > 0 {
			s = s[start+1 : start+end]
		}
	}
	at := strings.LastIndex(s, "@")
	if at < 0 || at == len(s)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s[at+1:]))
}
