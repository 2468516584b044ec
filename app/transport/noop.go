package transport

import "context"

// NoopMailer is a stubbed mailer for local development.
type NoopMailer struct{}

// NewNoopMailer constructs a no-op mailer.
func NewNoopMailer() *NoopMailer {
	return &NoopMailer{}
}

// Verify accepts any credentials.
func (m *NoopMailer) Verify(_ context.Context, _ Credentials) error {
	return nil
}

// Send pretends to deliver and returns a fixed receipt.
func (m *NoopMailer) Send(_ context.Context, _ Credentials, _ Message) (Receipt, error) {
	return Receipt{MessageID: "noop"}, nil
}
