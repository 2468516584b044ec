package dto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-mailer/app/transport"
)

var (
	ErrMissingFields    = errors.New("user, password, to, subject, and text are required")
	ErrInvalidRecipient = errors.New("to must be a valid email address")
)

// AttachmentPayload is a base64-encoded attachment as received on the wire.
type AttachmentPayload struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// SendRequest is the body of the send endpoints.
type SendRequest struct {
	User        string              `json:"user"`
	Password    string              `json:"password"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	Subject     string              `json:"subject"`
	Text        string              `json:"text"`
	HTML        string              `json:"html"`
	Attachments []AttachmentPayload `json:"attachments"`
}

// FromEchoContext binds and normalizes a request from Echo.
func FromEchoContext(ctx echo.Context) (SendRequest, error) {
	var req SendRequest
	if err := ctx.Bind(&req); err != nil {
		return SendRequest{}, err
	}
	req.normalize()
	return req, nil
}

// Validate checks required fields and the recipient format.
func (r *SendRequest) Validate() error {
	if r.User == "" || r.Password == "" || r.To == "" || r.Subject == "" || r.Text == "" {
		return ErrMissingFields
	}
	if _, err := mail.ParseAddress(r.To); err != nil {
		return ErrInvalidRecipient
	}
	return nil
}

// Credentials returns the per-request credential pair.
func (r *SendRequest) Credentials() transport.Credentials {
	return transport.Credentials{User: r.User, Password: r.Password}
}

// DecodeAttachments decodes the base64 attachment payloads.
func (r *SendRequest) DecodeAttachments() ([]transport.Attachment, error) {
	if len(r.Attachments) == 0 {
		return nil, nil
	}

	decoded := make([]transport.Attachment, 0, len(r.Attachments))
	for _, att := range r.Attachments {
		content, err := base64.StdEncoding.DecodeString(att.Content)
		if err != nil {
			return nil, fmt.Errorf("attachment %q: invalid base64 content", att.Filename)
		}
		decoded = append(decoded, transport.Attachment{
			Filename:    att.Filename,
			Content:     content,
			ContentType: att.ContentType,
		})
	}
	return decoded, nil
}

// normalize trims whitespace on address-like fields.
func (r *SendRequest) normalize() {
	r.User = strings.TrimSpace(r.User)
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	r.Subject = strings.TrimSpace(r.Subject)
}
