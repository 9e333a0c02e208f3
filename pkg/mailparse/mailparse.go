package mailparse

import (
	"fmt"
	"io"
	"log"

	"optiledger-backend/internal/ingest/domain"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Parse decodes one raw rfc822 message into the pipeline's inbound form.
// Transfer encodings are undone and nested multiparts flattened; the first
// text/html and text/plain leaves become the bodies, everything with a
// Content-Disposition of attachment is collected as an attachment.
func Parse(r io.Reader) (*domain.InboundEmail, error) {
	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("read message: %v", err)
	}
	mr := mail.NewReader(entity)

	email := &domain.InboundEmail{}
	if subject, err := mr.Header.Subject(); err == nil {
		email.Subject = subject
	} else {
		email.Subject = mr.Header.Get("Subject")
	}
	email.Sender = senderOf(&mr.Header)

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// unknown charsets still hand back a readable part; anything
			// else is a malformed message
			if !message.IsUnknownCharset(err) || part == nil {
				return nil, fmt.Errorf("read part: %v", err)
			}
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, rerr := io.ReadAll(part.Body)
			if rerr != nil {
				log.Printf("[MailParse] skipping unreadable %s part: %v", contentType, rerr)
				continue
			}
			switch {
			case contentType == "text/html" && email.HTMLBody == "":
				email.HTMLBody = string(body)
			case contentType == "text/plain" && email.PlainTextBody == "":
				email.PlainTextBody = string(body)
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			data, rerr := io.ReadAll(part.Body)
			if rerr != nil {
				log.Printf("[MailParse] skipping unreadable attachment %s: %v", filename, rerr)
				continue
			}
			email.Attachments = append(email.Attachments, domain.Attachment{
				Filename:    filename,
				ContentType: contentType,
				Data:        data,
			})
		}
	}

	return email, nil
}

// senderOf prefers the decoded From address list and falls back to the raw
// header value
func senderOf(h *mail.Header) string {
	addrs, err := h.AddressList("From")
	if err != nil || len(addrs) == 0 {
		return h.Get("From")
	}
	from := addrs[0]
	if from.Name != "" {
		return fmt.Sprintf("%s <%s>", from.Name, from.Address)
	}
	return from.Address
}
