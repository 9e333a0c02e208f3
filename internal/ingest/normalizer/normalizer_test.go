package normalizer

import (
	"testing"

	"optiledger-backend/internal/ingest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vendorTable = `<table><tbody><tr><td>CARRERA - 8053/CS</td><td>003 MATTE BLACK - POLARIZED GRAY</td><td>54/18</td><td>2</td></tr></tbody></table>`

const gmailForward = `<html><body>
<div dir="ltr">FYI, new order below.</div>
<div class="gmail_quote">
<div dir="ltr" class="gmail_attr">---------- Forwarded message ---------<br>From: <b>Safilo</b> &lt;noreply@safilo.com&gt;<br>Subject: Your Receipt for Order 113106782<br></div>
` + vendorTable + `
</div>
<div class="gmail_signature">Dr. Alvarez, Lakeside Optical</div>
</body></html>`

const zohoForward = `<html><body>
<div>See the confirmation below.</div>
<div class="zmail_extra_hr" style="border-top: 1px solid #ccc; min-height: 0px;"></div>
<div class="zmail_extra">
<div><b>============ Forwarded message ============</b></div>
` + vendorTable + `
</div>
<div class="zmail_signature">Sent from Zoho Mail</div>
</body></html>`

const outlookForward = `<html xmlns:o="urn:schemas-microsoft-com:office:office"><head>
<!--[if gte mso 9]><xml><o:OfficeDocumentSettings><o:AllowPNG/></o:OfficeDocumentSettings></xml><![endif]-->
</head><body lang="EN-US">
<div class="WordSection1">
<p class="MsoNormal">Please add these to inventory.<o:p></o:p></p>
<div id="appendonsend"></div>
<div style="border:none;border-top:solid #E1E1E1 1.0pt;padding:3.0pt 0in 0in 0in" id="divRplyFwdMsg">
<p class="MsoNormal"><b>From:</b> Safilo &lt;noreply@safilo.com&gt;<br><b>Sent:</b> Tuesday, August 18, 2026<br><b>To:</b> orders@lakesideoptical.com<br><b>Subject:</b> Your Receipt for Order 113106782<o:p></o:p></p>
</div>
` + vendorTable + `
</div>
</body></html>`

func TestNormalizeGmailForward(t *testing.T) {
	out := NewNormalizer().Normalize(gmailForward)

	require.Equal(t, []domain.WrapperProvider{domain.ProviderGmail}, out.Providers)
	assert.Contains(t, out.CleanedHTML, "CARRERA - 8053/CS")
	assert.Contains(t, out.CleanedHTML, "54/18")
	assert.NotContains(t, out.CleanedHTML, "gmail_quote")
	assert.NotContains(t, out.CleanedHTML, "Forwarded message")
	assert.NotContains(t, out.CleanedHTML, "Lakeside Optical")
	assert.Less(t, out.Reduction.CleanedLength, out.Reduction.OriginalLength)
}

func TestNormalizeZohoForward(t *testing.T) {
	out := NewNormalizer().Normalize(zohoForward)

	require.Equal(t, []domain.WrapperProvider{domain.ProviderZoho}, out.Providers)
	assert.Contains(t, out.CleanedHTML, "CARRERA - 8053/CS")
	assert.NotContains(t, out.CleanedHTML, "zmail_extra")
	assert.NotContains(t, out.CleanedHTML, "Forwarded message")
	assert.NotContains(t, out.CleanedHTML, "Sent from Zoho Mail")
}

func TestNormalizeOutlookForward(t *testing.T) {
	out := NewNormalizer().Normalize(outlookForward)

	require.Equal(t, []domain.WrapperProvider{domain.ProviderOutlook}, out.Providers)
	assert.Contains(t, out.CleanedHTML, "CARRERA - 8053/CS")
	assert.Contains(t, out.CleanedHTML, "Please add these to inventory.")
	assert.NotContains(t, out.CleanedHTML, "divRplyFwdMsg")
	assert.NotContains(t, out.CleanedHTML, "From:")
	assert.NotContains(t, out.CleanedHTML, "WordSection1")
	assert.NotContains(t, out.CleanedHTML, "OfficeDocumentSettings")
	assert.NotContains(t, out.CleanedHTML, "<o:p>")
}

func TestNormalizeMultipleProviders(t *testing.T) {
	// Forwarded through Outlook first, then relayed by Gmail.
	mixed := `<html><body><div class="gmail_quote"><p class="MsoNormal">Order attached.</p>` + vendorTable + `</div></body></html>`
	out := NewNormalizer().Normalize(mixed)

	assert.True(t, out.HasProvider(domain.ProviderGmail))
	assert.True(t, out.HasProvider(domain.ProviderOutlook))
	assert.Contains(t, out.CleanedHTML, "CARRERA - 8053/CS")
}

func TestNormalizeUnwrapPreservesNestedVendorBlock(t *testing.T) {
	wrapped := `<html><body><div class="gmail_quote">` + vendorTable + `</div></body></html>`
	out := NewNormalizer().Normalize(wrapped)

	// Unwrapping the quote container must keep every byte of the vendor
	// markup that was nested inside it.
	assert.Contains(t, out.CleanedHTML, vendorTable)
	assert.GreaterOrEqual(t, len(out.CleanedHTML), len(vendorTable))
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()
	for name, fixture := range map[string]string{
		"gmail":   gmailForward,
		"zoho":    zohoForward,
		"outlook": outlookForward,
		"plain":   `<html><body><p>No wrappers here.</p>` + vendorTable + `</body></html>`,
	} {
		first := n.Normalize(fixture)
		second := n.Normalize(first.CleanedHTML)
		assert.Equal(t, first.CleanedHTML, second.CleanedHTML, "fixture %s", name)
	}
}

func TestNormalizeRewritesSafeLinks(t *testing.T) {
	in := `<html><body><a href="https://nam12.safelinks.protection.outlook.com/?url=https%3A%2F%2Fwww.mysafilo.com%2Forder%2F113106782&amp;data=05%7C01%7C">View order</a></body></html>`
	out := NewNormalizer().Normalize(in)

	assert.Contains(t, out.CleanedHTML, `href="https://www.mysafilo.com/order/113106782"`)
	assert.NotContains(t, out.CleanedHTML, "safelinks.protection.outlook.com")
}

func TestNormalizeRemovesBannerAndHeaderBlock(t *testing.T) {
	in := `<html><body>
<p>---------- Forwarded message ----------</p>
<div style="border:none;border-top:solid #B5C4DF 1.0pt;padding:3.0pt 0in 0in 0in">From: Safilo Orders Sent: Monday Subject: Your Receipt</div>
` + vendorTable + `
</body></html>`
	out := NewNormalizer().Normalize(in)

	assert.NotContains(t, out.CleanedHTML, "Forwarded message")
	assert.NotContains(t, out.CleanedHTML, "From: Safilo Orders")
	assert.Contains(t, out.CleanedHTML, "CARRERA - 8053/CS")
}

func TestNormalizeKeepsUnwrappedEmailIntact(t *testing.T) {
	in := `<html><body><p>Direct vendor mail.</p>` + vendorTable + `</body></html>`
	out := NewNormalizer().Normalize(in)

	assert.Empty(t, out.Providers)
	assert.Contains(t, out.CleanedHTML, "Direct vendor mail.")
	assert.Contains(t, out.CleanedHTML, vendorTable)
}

func TestNormalizeEmptyInput(t *testing.T) {
	out := NewNormalizer().Normalize("")

	assert.Empty(t, out.Providers)
	assert.Equal(t, 0, out.Reduction.OriginalLength)
}
