package service

import "strings"

// Kind identifies a class of send failure.
type Kind string

const (
	KindInvalidInput              Kind = "invalid_input"
	KindAlreadyInProgress         Kind = "already_in_progress"
	KindInterrupted               Kind = "interrupted"
	KindAuthenticationFailed      Kind = "authentication_failed"
	KindEnvelopeRejected          Kind = "envelope_rejected"
	KindQuotaExceeded             Kind = "quota_exceeded"
	KindSuspiciousActivityBlocked Kind = "suspicious_activity_blocked"
	KindTransportError            Kind = "transport_error"
)

// SendError is a classified send failure. ShouldWait tells the caller
// to back off until the provider's limit resets instead of retrying
// immediately; Interrupted reports that a cancellation request was
// pending when the failure surfaced.
type SendError struct {
	Kind        Kind
	Message     string
	ShouldWait  bool
	Interrupted bool
}

func (e *SendError) Error() string {
	return e.Message
}

// Classify maps a provider/transport error onto the failure taxonomy.
// Matching is against provider response text since SMTP servers vary in
// the enhanced codes they emit.
func Classify(err error) *SendError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case containsAny(lower, "535", "username and password not accepted", "authentication failed", "invalid login", "bad credentials"):
		return &SendError{Kind: KindAuthenticationFailed, Message: msg}
	case containsAny(lower, "suspicious", "unusual activity", "this message is likely"):
		return &SendError{Kind: KindSuspiciousActivityBlocked, Message: msg, ShouldWait: true}
	case containsAny(lower, "quota", "limit exceeded", "sending limit", "too many", "rate exceeded"):
		return &SendError{Kind: KindQuotaExceeded, Message: msg, ShouldWait: true}
	case containsAny(lower, "550", "553", "recipient address rejected", "address not found"):
		return &SendError{Kind: KindEnvelopeRejected, Message: msg}
	default:
		return &SendError{Kind: KindTransportError, Message: msg}
	}
}

// ClassifySimple is the reduced taxonomy of the simplified profile:
// credential rejections keep their kind, everything else is a plain
// transport error.
func ClassifySimple(err error) *SendError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	if containsAny(lower, "535", "username and password not accepted", "authentication failed", "invalid login", "bad credentials") {
		return &SendError{Kind: KindAuthenticationFailed, Message: msg}
	}
	return &SendError{Kind: KindTransportError, Message: msg}
}

func containsAny(s string, markers ...string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
