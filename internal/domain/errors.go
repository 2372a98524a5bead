package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a publish failure.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindTransport
	KindRemoteJob
	KindVersionNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindRemoteJob:
		return "remote job"
	case KindVersionNotFound:
		return "version not found"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced to the pipeline step.
// Error() returns Message unchanged so it can be shown to users verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// ErrVersionNotFound is wrapped by every VersionNotFound error.
var ErrVersionNotFound = errors.New("Version not found")

// ConfigError returns a configuration error with a formatted message.
func ConfigError(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failed HTTP exchange with the user-facing message.
func TransportError(message string, err error) *Error {
	return &Error{Kind: KindTransport, Message: message, Err: err}
}

// JobError reports a publish job that ended Failed or Canceled.
func JobError(message string) *Error {
	return &Error{Kind: KindRemoteJob, Message: message}
}

// VersionNotFound reports that no current version could be discovered.
func VersionNotFound() *Error {
	return &Error{Kind: KindVersionNotFound, Message: ErrVersionNotFound.Error(), Err: ErrVersionNotFound}
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
