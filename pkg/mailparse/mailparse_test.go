package mailparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawConfirmation = "From: Safilo Orders <noreply@safilo.com>\r\n" +
	"To: orders@lakeside-eye.com\r\n" +
	"Subject: =?utf-8?q?Your_Receipt_for_Order_113106782?=\r\n" +
	"Date: Wed, 12 Aug 2026 09:14:02 -0500\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"outer\"\r\n" +
	"\r\n" +
	"--outer\r\n" +
	"Content-Type: multipart/alternative; boundary=\"inner\"\r\n" +
	"\r\n" +
	"--inner\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Your receipt for order 113106782\r\n" +
	"--inner\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"<html><body><table border=3D\"1\"><tr><td>CARRERA - 8053/CS</td></tr></tabl=\r\n" +
	"e></body></html>\r\n" +
	"--inner--\r\n" +
	"--outer\r\n" +
	"Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet\r\n" +
	"Content-Disposition: attachment; filename=\"order.xlsx\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"UEsDBGZha2U=\r\n" +
	"--outer--\r\n"

func TestParseMultipartMessage(t *testing.T) {
	email, err := Parse(strings.NewReader(rawConfirmation))
	require.NoError(t, err)

	assert.Equal(t, "Safilo Orders <noreply@safilo.com>", email.Sender)
	assert.Equal(t, "Your Receipt for Order 113106782", email.Subject)
	assert.Equal(t, "Your receipt for order 113106782", strings.TrimSpace(email.PlainTextBody))

	// quoted-printable soft breaks and =3D escapes undone
	assert.Contains(t, email.HTMLBody, `<table border="1">`)
	assert.Contains(t, email.HTMLBody, "</table>")

	require.Len(t, email.Attachments, 1)
	att := email.Attachments[0]
	assert.Equal(t, "order.xlsx", att.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", att.ContentType)
	assert.Equal(t, []byte("PK\x03\x04fake"), att.Data)
}

func TestParseSimpleTextMessage(t *testing.T) {
	raw := "From: orders@marchon.com\r\n" +
		"Subject: Order Confirmation 90217744\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Order Confirmation\r\nOrder Number: 90217744\r\n"

	email, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "orders@marchon.com", email.Sender)
	assert.Equal(t, "Order Confirmation 90217744", email.Subject)
	assert.Contains(t, email.PlainTextBody, "Order Number: 90217744")
	assert.Empty(t, email.HTMLBody)
	assert.Empty(t, email.Attachments)
}

func TestParseGarbageFails(t *testing.T) {
	_, err := Parse(strings.NewReader("not an email at all"))
	require.Error(t, err)
}
