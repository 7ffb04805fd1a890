package pcm

import "errors"

// Kind classifies a pcm error, per spec.md §7's error taxonomy.
type Kind int

const (
	InvalidArgument Kind = iota
	InvalidLength
	InvalidState
	AllocationFailed
)

// Error is the structured error type every exported pcm operation returns.
type Error struct {
	Kind  Kind
	Param string
	Msg   string
}

func (e *Error) Error() string {
	if e.Param != "" {
		return "pcm: " + e.Msg + " (param: " + e.Param + ")"
	}
	return "pcm: " + e.Msg
}

// Is lets callers use errors.Is(err, pcm.ErrUnknownFormat) style checks
// against the Kind rather than the exact message.
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return e.Kind == o.Kind
	}
	return false
}

// Sentinel errors for errors.Is comparisons against a specific Kind.
var (
	ErrUnknownFormat = &Error{Kind: InvalidArgument, Msg: "unknown format"}
	ErrShortInput    = &Error{Kind: InvalidLength, Msg: "short input"}
)
