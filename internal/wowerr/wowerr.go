// Package wowerr classifies the errors the bridge core can raise so the
// reconnect controller and the host can react without string matching.
package wowerr

import "fmt"

// Kind distinguishes error classes per the propagation rules: which errors
// invalidate a session, which trigger reconnect, and which are fatal.
type Kind int

const (
	ConfigError Kind = iota
	TransportError
	ProtocolError
	AuthFatal
	AuthTransient
	CryptoError
	RequestTimeout
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "ConfigError"
	case TransportError:
		return "TransportError"
	case ProtocolError:
		return "ProtocolError"
	case AuthFatal:
		return "AuthFatal"
	case AuthTransient:
		return "AuthTransient"
	case CryptoError:
		return "CryptoError"
	case RequestTimeout:
		return "RequestTimeout"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with its Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a Kind-classified error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a Kind-classified error around an existing cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// IsFatal reports whether this Kind should skip reconnection entirely per
// the reconnect controller's classification.
func (k Kind) IsFatal() bool {
	return k == AuthFatal || k == ConfigError
}
