package rangeget

import "fmt"

// ErrorKind closes the DownloadError taxonomy: every failure the core raises
// is tagged with exactly one of these, so callers can switch on Kind instead
// of matching against a growing type hierarchy.
type ErrorKind string

// The closed set of DownloadError kinds.
const (
	KindRangesNotSupported ErrorKind = "ranges_not_supported"
	KindNetworkError       ErrorKind = "network_error"
	KindChunkSizeMismatch  ErrorKind = "chunk_size_mismatch"
	KindFileWriteError     ErrorKind = "file_write_error"
	KindInvalidConfig      ErrorKind = "invalid_config"
	KindInvalidArgument    ErrorKind = "invalid_argument"
)

// DownloadError is the single error type the core raises. Cause, when set,
// is reachable through errors.Unwrap/errors.Is/errors.As.
type DownloadError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *DownloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *DownloadError of the same Kind, so
// errors.Is(err, NewNetworkError("", nil)) works without caring about Message/Cause.
func (e *DownloadError) Is(target error) bool {
	t, ok := target.(*DownloadError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewRangesNotSupported builds the reserved-but-optional strict-mode error
// for an origin that doesn't advertise byte-range support.
func NewRangesNotSupported(url string) *DownloadError {
	return &DownloadError{Kind: KindRangesNotSupported, Message: fmt.Sprintf("origin does not support byte ranges: %s", url)}
}

// NewNetworkError wraps a transport-level fault, non-accepted HTTP status, or
// missing required header.
func NewNetworkError(message string, cause error) *DownloadError {
	return &DownloadError{Kind: KindNetworkError, Message: message, Cause: cause}
}

// NewChunkSizeMismatch reports a server returning the wrong number of bytes
// for a 206 response. Never retried: it indicates server misbehavior.
func NewChunkSizeMismatch(expected, actual int64, rangeHeader string) *DownloadError {
	return &DownloadError{
		Kind:    KindChunkSizeMismatch,
		Message: fmt.Sprintf("expected %d bytes, got %d for %s", expected, actual, rangeHeader),
	}
}

// NewFileWriteError wraps a failure during file creation, sizing, seeking, writing, or closing.
func NewFileWriteError(message string, cause error) *DownloadError {
	return &DownloadError{Kind: KindFileWriteError, Message: message, Cause: cause}
}

// NewInvalidConfig reports a construction-time DownloadConfig validation failure.
func NewInvalidConfig(message string) *DownloadError {
	return &DownloadError{Kind: KindInvalidConfig, Message: message}
}

// NewInvalidArgument reports a precondition violation, such as a non-positive
// length or chunk size passed to Split.
func NewInvalidArgument(message string) *DownloadError {
	return &DownloadError{Kind: KindInvalidArgument, Message: message}
}

// IsNetworkError is the default retry predicate used throughout the core:
// only network-kind errors are transient.
func IsNetworkError(err error) bool {
	de, ok := err.(*DownloadError)
	return ok && de.Kind == KindNetworkError
}

// IsInvalidArgument reports whether err is a DownloadError of kind InvalidArgument.
func IsInvalidArgument(err error) bool {
	de, ok := err.(*DownloadError)
	return ok && de.Kind == KindInvalidArgument
}

// IsChunkSizeMismatch reports whether err is a DownloadError of kind ChunkSizeMismatch.
func IsChunkSizeMismatch(err error) bool {
	de, ok := err.(*DownloadError)
	return ok && de.Kind == KindChunkSizeMismatch
}
