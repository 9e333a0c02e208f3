package domain

// DetectionMethod names the evidence tier that resolved a vendor.
type DetectionMethod string

const (
	MethodDomain        DetectionMethod = "domain"
	MethodBodySignature DetectionMethod = "body_signature"
	MethodWeakPatterns  DetectionMethod = "weak_patterns"
	MethodNone          DetectionMethod = "none"
)

// MatchedSignals records which configured signals fired during detection,
// for debugging and for the manual-review score table.
type MatchedSignals struct {
	Domain          string   `json:"domain,omitempty"`
	Signatures      []string `json:"signatures,omitempty"`
	SubjectKeywords []string `json:"subject_keywords,omitempty"`
	BodyKeywords    []string `json:"body_keywords,omitempty"`
}

// DetectionResult is produced fresh per email and never persisted on its
// own; the coordinator folds method and confidence into the Order record.
type DetectionResult struct {
	VendorID          string          `json:"vendor_id"`
	Confidence        int             `json:"confidence"`
	Method            DetectionMethod `json:"method"`
	Signals           MatchedSignals  `json:"signals"`
	NeedsManualReview bool            `json:"needs_manual_review"`
	// Scores holds the full per-vendor weak-pattern match counts when the
	// result fell below the confidence floor.
	Scores map[string]int `json:"scores,omitempty"`
}

// Resolved reports whether detection produced an accepted vendor identity.
func (r DetectionResult) Resolved() bool {
	return r.VendorID != VendorUnknown && !r.NeedsManualReview
}
