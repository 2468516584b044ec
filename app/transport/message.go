package transport

import (
	"bytes"
	"fmt"

	"github.com/wneessen/go-mail"
)

// buildMessage assembles a MIME message with a plain-text body, an
// optional HTML alternative, and any attachments. The caller is
// expected to have defaulted the From address already.
func buildMessage(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	for _, att := range msg.Attachments {
		var opts []mail.FileOption
		if att.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(att.ContentType)))
		}
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Content), opts...); err != nil {
			return nil, fmt.Errorf("attach %q: %w", att.Filename, err)
		}
	}

	m.SetMessageID()
	return m, nil
}
