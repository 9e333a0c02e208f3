package domain

// WrapperProvider identifies a mail client whose forwarding or quoting
// markup wraps the vendor's original message
type WrapperProvider string

const (
	ProviderGmail   WrapperProvider = "gmail"
	ProviderZoho    WrapperProvider = "zoho"
	ProviderOutlook WrapperProvider = "outlook"
)

// Attachment is one decoded attachment from an inbound email
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// InboundEmail is the structured payload handed to the pipeline. The
// transport layer (webhook or mailbox poller) has already decoded the
// envelope; the pipeline never parses raw MIME itself.
type InboundEmail struct {
	Sender        string       `json:"sender"`
	Subject       string       `json:"subject"`
	HTMLBody      string       `json:"html_body"`
	PlainTextBody string       `json:"plain_text_body"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// ReductionMetadata records how much markup normalization removed
type ReductionMetadata struct {
	OriginalLength int `json:"original_length"`
	CleanedLength  int `json:"cleaned_length"`
}

// NormalizedEmail is the cleaned form of one email, alive only for the
// duration of a single ingestion
type NormalizedEmail struct {
	CleanedHTML  string            `json:"cleaned_html"`
	OriginalHTML string            `json:"original_html"`
	Providers    []WrapperProvider `json:"providers"`
	Reduction    ReductionMetadata `json:"reduction"`
}

// HasProvider reports whether a wrapper provider was detected
func (n *NormalizedEmail) HasProvider(p WrapperProvider) bool {
	for _, detected := range n.Providers {
		if detected == p {
			return true
		}
	}
	return false
}
