package core

import (
	"fmt"
)

// Kind classifies engine errors along the lines spec.md §7 lists. Callers
// that want to react differently to "no nodes found" versus "exhausted
// retries" switch on Kind rather than parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindInvalidData
	KindNotFound
	KindOutOfMemory
	KindRPCError
	KindLimitReached
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidData:
		return "invalid_data"
	case KindNotFound:
		return "not_found"
	case KindOutOfMemory:
		return "out_of_memory"
	case KindRPCError:
		return "rpc_error"
	case KindLimitReached:
		return "limit_reached"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the engine's error type. A RequestContext carries at most one of
// these in its error slot (spec.md §7: "the context carries at most one
// error string and a numeric code").
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// wrapError prefixes message onto err, preserving err's Kind if it is an
// *Error, or defaulting to KindUnknown otherwise. This implements the
// "Error updating node_list/white_list" prefixing spec.md §7 requires for
// child-context error propagation.
func wrapError(err error, prefix string) *Error {
	if err == nil {
		return nil
	}
	kind := KindUnknown
	if e, ok := err.(*Error); ok {
		kind = e.Kind
	}
	return &Error{Kind: kind, Message: fmt.Sprintf("%s: %s", prefix, err.Error())}
}
