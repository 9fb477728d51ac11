package search

import "errors"

// ErrorKind classifies a failed search.
type ErrorKind string

const (
	KindEmptyQuery   ErrorKind = "empty query"  // rejected before any I/O
	KindConnectivity ErrorKind = "connectivity" // backend unreachable
	KindAPI          ErrorKind = "api error"    // non-2xx response
	KindNoData       ErrorKind = "no data"      // 2xx without a usable payload
)

// Error is a classified search failure. Message is user-facing.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // HTTP status for KindAPI, else 0
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrEmptyQuery is returned when a search is submitted with a blank query.
var ErrEmptyQuery = &Error{Kind: KindEmptyQuery, Message: "Please enter a search query."}

// KindOf returns the kind of err, or KindConnectivity for unclassified errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindConnectivity
}
