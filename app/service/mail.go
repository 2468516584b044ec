package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-mailer/app/dto"
	"github.com/vibast-solutions/ms-go-mailer/app/gate"
	"github.com/vibast-solutions/ms-go-mailer/app/transport"
)

// Receipt reports a completed send: the provider's delivery identifier
// and the lifetime total of emails sent by this process.
type Receipt struct {
	MessageID  string
	EmailCount int64
}

// profile is one configuration of the send state machine. The full
// profile verifies the session before submitting; the simplified one
// skips verification and uses the reduced taxonomy.
type profile struct {
	name     string
	mailer   transport.Mailer
	verify   bool
	classify func(error) *SendError
}

// MailService orchestrates sends through the single-flight gate.
type MailService struct {
	gate   *gate.Gate
	full   profile
	simple profile
	log    *logrus.Logger
}

// NewMailService builds the orchestrator. mailer carries the strict
// transport profile, simpleMailer the certificate-relaxed one.
func NewMailService(g *gate.Gate, mailer, simpleMailer transport.Mailer, log *logrus.Logger) *MailService {
	return &MailService{
		gate:   g,
		full:   profile{name: "full", mailer: mailer, verify: true, classify: Classify},
		simple: profile{name: "simple", mailer: simpleMailer, verify: false, classify: ClassifySimple},
		log:    log,
	}
}

// Send runs the full send pipeline: validate, acquire the gate, verify
// the session, submit, classify failures.
func (s *MailService) Send(ctx context.Context, req dto.SendRequest) (Receipt, error) {
	return s.send(ctx, req, s.full)
}

// SendSimple runs the same state machine without the explicit verify
// step and with relaxed transport security.
func (s *MailService) SendSimple(ctx context.Context, req dto.SendRequest) (Receipt, error) {
	return s.send(ctx, req, s.simple)
}

// Stop requests cooperative cancellation of the in-flight send. It
// returns false when nothing is in flight.
func (s *MailService) Stop() bool {
	stopped := s.gate.RequestCancel()
	if stopped {
		s.log.Info("cancellation requested for in-flight send")
	}
	return stopped
}

// Status returns the current gate state and counters.
func (s *MailService) Status() gate.Status {
	return s.gate.Snapshot()
}

func (s *MailService) send(ctx context.Context, req dto.SendRequest, p profile) (Receipt, error) {
	if err := req.Validate(); err != nil {
		return Receipt{}, &SendError{Kind: KindInvalidInput, Message: err.Error()}
	}
	attachments, err := req.DecodeAttachments()
	if err != nil {
		return Receipt{}, &SendError{Kind: KindInvalidInput, Message: err.Error()}
	}

	if !s.gate.TryAcquire() {
		return Receipt{}, &SendError{Kind: KindAlreadyInProgress, Message: "a send is already in progress, try again later"}
	}
	// Runs on every exit path, panics included. The gate must never
	// stay busy after this call returns.
	defer s.gate.Release()

	if s.gate.CancelRequested() {
		return Receipt{}, s.interrupted()
	}

	creds := req.Credentials()

	if p.verify {
		if err := p.mailer.Verify(ctx, creds); err != nil {
			s.log.WithFields(logrus.Fields{"profile": p.name, "to": req.To}).
				WithError(err).Warn("session verification failed")
			return Receipt{}, p.classify(err)
		}
		if s.gate.CancelRequested() {
			return Receipt{}, s.interrupted()
		}
	}

	msg := transport.Message{
		From:        req.From,
		To:          req.To,
		Subject:     req.Subject,
		Text:        req.Text,
		HTML:        req.HTML,
		Attachments: attachments,
	}
	if msg.HTML == "" {
		msg.HTML = strings.ReplaceAll(req.Text, "\n", "<br>")
	}

	receipt, err := p.mailer.Send(ctx, creds, msg)
	if err != nil {
		fail := p.classify(err)
		fail.Interrupted = s.gate.CancelRequested()
		s.log.WithFields(logrus.Fields{"profile": p.name, "to": req.To, "kind": fail.Kind}).
			WithError(err).Warn("send failed")
		return Receipt{}, fail
	}

	total := s.gate.RecordSent()
	s.log.WithFields(logrus.Fields{
		"profile":   p.name,
		"to":        req.To,
		"messageId": receipt.MessageID,
		"total":     total,
	}).Info("email sent")

	return Receipt{MessageID: receipt.MessageID, EmailCount: total}, nil
}

func (s *MailService) interrupted() *SendError {
	return &SendError{Kind: KindInterrupted, Message: "send cancelled by operator", Interrupted: true}
}
