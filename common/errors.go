package common

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	// InvalidArgument indicates a malformed request, such as a negative
	// page number or a non-positive pool capacity.
	InvalidArgument ErrorCode = iota
	// NotInitialized indicates an operation on a pool that has not been
	// initialized or has already been closed.
	NotInitialized
	// PageNotFound indicates that the target page of an unpin, mark-dirty,
	// or force operation is not resident in any frame.
	PageNotFound
	// CapacityExhausted indicates that a pin was refused because every
	// frame is pinned. Recoverable by the caller, not a defect.
	CapacityExhausted
	// StoreNotFound indicates an attempt to open a page store that does
	// not exist.
	StoreNotFound
	// NonExistingBlock indicates a read of a block beyond the store's
	// current extent.
	NonExistingBlock
	// StoreIO indicates that an underlying read, write, or grow of the
	// block store failed. The cause is carried opaquely and never
	// reinterpreted.
	StoreIO
)

func (ec ErrorCode) String() string {
	switch ec {
	case InvalidArgument:
		return "InvalidArgument"
	case NotInitialized:
		return "NotInitialized"
	case PageNotFound:
		return "PageNotFound"
	case CapacityExhausted:
		return "CapacityExhausted"
	case StoreNotFound:
		return "StoreNotFound"
	case NonExistingBlock:
		return "NonExistingBlock"
	case StoreIO:
		return "StoreIO"
	}
	return "unknown"
}

// Error is the error type for the buffer manager. It pairs an ErrorCode
// with a detailed message so callers can branch on the code while the
// message stays useful for humans. StoreIO errors additionally carry the
// underlying cause, reachable through errors.Unwrap.
type Error struct {
	Code      ErrorCode
	ErrString string
	Cause     error
}

func (e Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("err: %s; msg: %s: %v", e.Code.String(), e.ErrString, e.Cause)
	}
	return fmt.Sprintf("err: %s; msg: %s", e.Code.String(), e.ErrString)
}

func (e Error) Unwrap() error {
	return e.Cause
}

// NewError builds an Error with a formatted message.
func NewError(code ErrorCode, format string, args ...any) Error {
	return Error{Code: code, ErrString: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error that records cause for unwrapping.
func WrapError(code ErrorCode, cause error, format string, args ...any) Error {
	return Error{Code: code, ErrString: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed. The second
// return value reports whether err carries a code at all.
func CodeOf(err error) (ErrorCode, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// IsCode reports whether err carries the given ErrorCode.
func IsCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
