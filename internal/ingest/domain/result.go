package domain

// IngestResult is the only contract the rest of the application consumes
// from the pipeline. Failures carries human-readable degradation notes;
// a non-empty Failures list does not by itself mean the ingestion failed.
type IngestResult struct {
	Success           bool     `json:"success"`
	OrderID           string   `json:"order_id,omitempty"`
	ItemsProcessed    int      `json:"items_processed"`
	Duplicate         bool     `json:"duplicate"`
	NeedsManualReview bool     `json:"needs_manual_review"`
	Failures          []string `json:"failures,omitempty"`
}
