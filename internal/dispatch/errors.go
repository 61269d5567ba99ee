package dispatch

import "errors"

// ErrEmptyInput is returned when a mode that needs a target gets none. It is
// not shown to the operator.
var ErrEmptyInput = errors.New("empty target")

// Kind classifies a failed dispatch.
type Kind int

const (
	// KindTransport covers network failures and non-2xx answers.
	KindTransport Kind = iota + 1
	// KindMalformed covers bodies that are not a JSON object of the expected shape.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// ProbeError is the single operator-visible failure of a dispatch.
type ProbeError struct {
	Kind    Kind
	Message string
	// Status is the HTTP status when the backend answered, else 0.
	Status int
	Err    error
}

func (e *ProbeError) Error() string { return e.Message }

func (e *ProbeError) Unwrap() error { return e.Err }

func transportErr(msg string, status int, err error) *ProbeError {
	return &ProbeError{Kind: KindTransport, Message: msg, Status: status, Err: err}
}

func malformedErr(msg string, err error) *ProbeError {
	return &ProbeError{Kind: KindMalformed, Message: msg, Err: err}
}
