package transport

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the subset of the SES v2 client used by SESMailer. Kept as
// an interface so tests can substitute a mock.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

// SESMailer sends email via AWS SES v2. Session authentication comes
// from the AWS configuration rather than the per-request credential
// pair; the pair is still required by the request contract.
type SESMailer struct {
	client SESAPI
	source string
}

// NewSESMailer builds a mailer backed by the SES v2 API.
func NewSESMailer(cfg aws.Config, source string) *SESMailer {
	return &SESMailer{client: sesv2.NewFromConfig(cfg), source: source}
}

// NewSESMailerWithClient builds a mailer with a custom client, used in tests.
func NewSESMailerWithClient(client SESAPI, source string) *SESMailer {
	return &SESMailer{client: client, source: source}
}

// Verify checks that the SES account is reachable and allowed to send.
func (m *SESMailer) Verify(ctx context.Context, _ Credentials) error {
	out, err := m.client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		return fmt.Errorf("ses get account: %w", err)
	}
	if !out.SendingEnabled {
		return fmt.Errorf("ses sending is disabled for this account")
	}
	return nil
}

// Send delivers the message via SES. Messages with attachments are
// rendered to raw MIME; everything else uses the simple content shape.
func (m *SESMailer) Send(ctx context.Context, _ Credentials, msg Message) (Receipt, error) {
	if msg.From == "" {
		msg.From = m.source
	}

	input, err := m.buildInput(msg)
	if err != nil {
		return Receipt{}, err
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return Receipt{}, fmt.Errorf("ses send email: %w", err)
	}

	return Receipt{MessageID: aws.ToString(out.MessageId)}, nil
}

func (m *SESMailer) buildInput(msg Message) (*sesv2.SendEmailInput, error) {
	if len(msg.Attachments) > 0 {
		mm, err := buildMessage(msg)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if _, err := mm.WriteTo(&buf); err != nil {
			return nil, fmt.Errorf("render raw message: %w", err)
		}
		return &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(msg.From),
			Destination:      &types.Destination{ToAddresses: []string{msg.To}},
			Content: &types.EmailContent{
				Raw: &types.RawMessage{Data: buf.Bytes()},
			},
		}, nil
	}

	body := &types.Body{
		Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}, nil
}
