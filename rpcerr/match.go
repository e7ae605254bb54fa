package rpcerr

import (
	"errors"
	"time"
)

// As attempts to extract an *Error from an error chain.
// Returns nil if no RPC error is found.
func As(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return nil
}

// Is checks if any error in the chain is an RPC error of the given kind.
// This is the most specific match: FLOOD_WAIT_X matches only flood waits,
// not other flood errors.
func Is(err error, kind Kind) bool {
	if e := As(err); e != nil {
		return e.kind == kind
	}
	return false
}

// IsCategory checks if any error in the chain is an RPC error of the given
// category. This matches every kind in the category, the generic fallback
// kind included.
func IsCategory(err error, category Category) bool {
	if e := As(err); e != nil {
		return e.category == category
	}
	return false
}

// CategoryOf extracts the category from an error. Returns 0 if err is not
// an RPC error.
func CategoryOf(err error) Category {
	if e := As(err); e != nil {
		return e.category
	}
	return 0
}

// KindOf extracts the kind from an error. Returns an empty Kind if err is
// not an RPC error.
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.kind
	}
	return ""
}

// ValueOf extracts the numeric payload from an error, if present.
func ValueOf(err error) (int, bool) {
	if e := As(err); e != nil {
		return e.Value()
	}
	return 0, false
}

// IsRetryable checks whether repeating the request that produced err may
// succeed. Returns false for non-RPC errors.
func IsRetryable(err error) bool {
	if e := As(err); e != nil {
		return e.IsRetryable()
	}
	return false
}

// IsUnknown checks whether err was classified under the reserved 520
// category.
func IsUnknown(err error) bool {
	return IsCategory(err, CategoryUnknown)
}

// IsFloodWait checks whether err is a flood-wait error carrying a wait
// duration.
func IsFloodWait(err error) bool {
	switch KindOf(err) {
	case KindFloodWait, KindFloodTestPhoneWait, KindSlowmodeWait:
		return true
	default:
		return false
	}
}

// WaitDuration returns the wait announced by a flood error. The second
// return is false when err is not a flood error or carries no value.
func WaitDuration(err error) (time.Duration, bool) {
	if !IsCategory(err, CategoryFlood) {
		return 0, false
	}
	secs, ok := ValueOf(err)
	if !ok {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// MigrateDC returns the datacenter a 303 redirect points at. The second
// return is false when err is not a SeeOther error or carries no value.
func MigrateDC(err error) (int, bool) {
	if !IsCategory(err, CategorySeeOther) {
		return 0, false
	}
	return ValueOf(err)
}
