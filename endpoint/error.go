package endpoint

import "fmt"

// Kind names a domain-level failure category. The core never returns bare
// errors for anything protocol-related; it always wraps them in an *Error
// with one of these kinds so a caller can branch on Kind without string
// matching.
type Kind string

const (
	// KindInvalidPacket covers framing, magic mismatch, AEAD tag failure,
	// decoding failure, and header-validity failure.
	KindInvalidPacket Kind = "invalid_packet"
	// KindNotSynchronized is returned by Remote.Now before clock sync has
	// produced an offset interval.
	KindNotSynchronized Kind = "not_synchronized"
	// KindRemoteFailedChallenge is returned when Ed25519 verification of the
	// responder's nonce signature is rejected.
	KindRemoteFailedChallenge Kind = "remote_failed_challenge"
	// KindUpgradeRequired is surfaced by the caller (not raised internally)
	// when ValidateMagicAndVersion reports a version mismatch.
	KindUpgradeRequired Kind = "upgrade_required"
	// KindAgreementFailed covers a second key-agreement attempt, a second
	// Init after the ephemeral key was consumed, or an internal X25519 fault.
	KindAgreementFailed Kind = "agreement_failed"
	// KindCryptoFailure covers internal AEAD faults other than tag failure
	// (e.g. a malformed key).
	KindCryptoFailure Kind = "crypto_failure"

	// The following three are reserved for the transport layer above this
	// core; the endpoint never produces them itself, but callers may use
	// them when wrapping transport-level failures in the same *Error shape.
	KindPartialSend   Kind = "partial_send"
	KindSendingFailed Kind = "sending_failed"
	KindShutdown      Kind = "shutdown"
)

// Error is the single error type the endpoint returns for every failure. It
// always wraps the underlying cause, if any, via Unwrap.
type Error struct {
	Kind Kind
	// Version is populated only when Kind == KindUpgradeRequired.
	Version uint32
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Kind == KindUpgradeRequired {
		return fmt.Sprintf("upgrade to version %d required", e.Version)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// NewUpgradeRequired builds the KindUpgradeRequired error the caller
// surfaces after ValidateMagicAndVersion reports a version mismatch.
func NewUpgradeRequired(version uint32) *Error {
	return &Error{Kind: KindUpgradeRequired, Version: version}
}
