package transport

import "context"

// Credentials is the per-request credential pair used to authenticate
// the session with the upstream provider.
type Credentials struct {
	User     string
	Password string
}

// Attachment is a decoded file to include with the message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is a fully prepared outbound email.
type Message struct {
	From        string
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Receipt reports a successful delivery.
type Receipt struct {
	MessageID string
}

// Mailer abstracts the upstream mail provider. Verify and Send are the
// only blocking operations in the send pipeline; callers poll for
// cancellation around them.
type Mailer interface {
	// Verify establishes a session with the provider and checks the
	// supplied credentials without sending anything.
	Verify(ctx context.Context, creds Credentials) error
	// Send delivers the message and returns the provider's delivery
	// identifier.
	Send(ctx context.Context, creds Credentials, msg Message) (Receipt, error)
}
