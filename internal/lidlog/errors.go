package lidlog

import "fmt"

// ErrKind classifies decoder failures so callers can pick an exit code or a
// one-line diagnostic without string-matching error text.
type ErrKind int

const (
	// ErrShortRead means the input was shorter than the structure it
	// declared (e.g. a main header under 32 KiB).
	ErrShortRead ErrKind = iota
	// ErrBadHeader means a tagged region was malformed: missing markers,
	// a non-ASCII tag, a truncated HSS record, or a length byte that
	// isn't a hex digit.
	ErrBadHeader
	// ErrMissingField means a required mini-header field was absent.
	ErrMissingField
	// ErrInvalidConfig means TRI/ORI/BMN/BMR fail the timing invariant
	// or no channel is enabled.
	ErrInvalidConfig
	// ErrBadClock means a CLK field didn't match the expected layout.
	ErrBadClock
	// ErrIO means the underlying source or sink failed.
	ErrIO
)

func (k ErrKind) String() string {
	switch k {
	case ErrShortRead:
		return "ShortRead"
	case ErrBadHeader:
		return "BadHeader"
	case ErrMissingField:
		return "MissingField"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrBadClock:
		return "BadClock"
	case ErrIO:
		return "IoError"
	default:
		return "Unknown"
	}
}

// DecodeError is the concrete error type every decoder failure surfaces as.
// It carries enough context (kind, a human-readable location) for the driver
// to print a one-line diagnostic and abort.
type DecodeError struct {
	Kind    ErrKind
	Context string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := e.Kind.String()
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause, if any, to errors.Is/As.
func (e *DecodeError) Unwrap() error { return e.Err }

func newErr(kind ErrKind, context string, err error) *DecodeError {
	return &DecodeError{Kind: kind, Context: context, Err: err}
}

func wrapf(kind ErrKind, err error, format string, args ...any) *DecodeError {
	return newErr(kind, fmt.Sprintf(format, args...), err)
}
