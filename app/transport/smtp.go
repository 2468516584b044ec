package transport

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPMailer sends email over authenticated SMTP. A fresh client is
// built per call because credentials arrive with each request.
type SMTPMailer struct {
	host      string
	port      int
	tlsConfig *tls.Config
}

// SMTPOption configures an SMTPMailer.
type SMTPOption func(*SMTPMailer)

// WithInsecureTLS relaxes server certificate verification. Used by the
// simplified send profile only.
func WithInsecureTLS() SMTPOption {
	return func(m *SMTPMailer) {
		m.tlsConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
}

// NewSMTPMailer constructs a mailer for the given SMTP endpoint.
func NewSMTPMailer(host string, port int, opts ...SMTPOption) *SMTPMailer {
	m := &SMTPMailer{host: host, port: port}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Verify dials the SMTP endpoint and authenticates with the supplied
// credentials, then closes the session without sending.
func (m *SMTPMailer) Verify(ctx context.Context, creds Credentials) error {
	client, err := m.client(creds)
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return nil
}

// Send delivers the message in a single dial-send-quit session and
// returns the generated Message-ID.
func (m *SMTPMailer) Send(ctx context.Context, creds Credentials, msg Message) (Receipt, error) {
	if msg.From == "" {
		msg.From = creds.User
	}

	mm, err := buildMessage(msg)
	if err != nil {
		return Receipt{}, err
	}

	client, err := m.client(creds)
	if err != nil {
		return Receipt{}, err
	}
	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return Receipt{}, fmt.Errorf("smtp send: %w", err)
	}

	return Receipt{MessageID: mm.GetMessageID()}, nil
}

// client builds a go-mail client bound to the per-request credentials.
func (m *SMTPMailer) client(creds Credentials) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(creds.User),
		mail.WithPassword(creds.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	}
	if m.tlsConfig != nil {
		opts = append(opts, mail.WithTLSConfig(m.tlsConfig))
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}
