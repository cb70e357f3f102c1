package common

import "errors"

// ErrorKind classifies failures for the operator.
type ErrorKind int

const (
	KindIo ErrorKind = iota
	KindNotFound
	KindDecode
	KindUnsupportedRemote
	KindInvalidState
	KindInvalidQuery
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDecode:
		return "decode"
	case KindUnsupportedRemote:
		return "unsupported remote"
	case KindInvalidState:
		return "invalid state"
	case KindInvalidQuery:
		return "invalid query"
	default:
		return "io"
	}
}

// Kind sentinels. Package-level errors wrap one of these so KindOf can
// classify them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrDecode            = errors.New("decode failed")
	ErrUnsupportedRemote = errors.New("unsupported remote")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidQuery      = errors.New("invalid query")
)

// KindOf returns the kind of err. Unclassified errors are Io.
func KindOf(err error) ErrorKind {
	var f Failure
	switch {
	case err == nil:
		return KindIo
	case errors.As(err, &f):
		return f.Kind
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrUnsupportedRemote):
		return KindUnsupportedRemote
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrInvalidQuery):
		return KindInvalidQuery
	}
	return KindIo
}
