package cwt

import "errors"

// Kind classifies a cwt error, per spec.md §7's error taxonomy.
type Kind int

const (
	InvalidArgument Kind = iota
	InvalidLength
	InvalidState
	AllocationFailed
)

// Error is the structured error type every exported cwt operation returns.
type Error struct {
	Kind  Kind
	Param string
	Msg   string
}

func (e *Error) Error() string {
	if e.Param != "" {
		return "cwt: " + e.Msg + " (param: " + e.Param + ")"
	}
	return "cwt: " + e.Msg
}

func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return e.Kind == o.Kind
	}
	return false
}

var (
	ErrInvalidWidth    = &Error{Kind: InvalidArgument, Msg: "output width must be >= 32"}
	ErrInvalidRange    = &Error{Kind: InvalidArgument, Msg: "invalid frequency range"}
	ErrInvalidMode     = &Error{Kind: InvalidArgument, Msg: "unknown scale mode"}
	ErrInvalidPosition = &Error{Kind: InvalidArgument, Msg: "position out of bounds"}
	ErrNoSamples       = &Error{Kind: InvalidState, Msg: "no samples in buffer"}
)
