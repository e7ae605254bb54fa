package rpcerr

import "strconv"

// Category classifies RPC errors by the numeric code of the failed result.
type Category int

// Category codes are fixed by the server protocol and exhaustive for all
// classes the library recognizes. CategoryUnknown is reserved for anything
// outside the table.
const (
	CategorySeeOther       Category = 303
	CategoryBadRequest     Category = 400
	CategoryUnauthorized   Category = 401
	CategoryForbidden      Category = 403
	CategoryNotAcceptable  Category = 406
	CategoryFlood          Category = 420
	CategoryInternalServer Category = 500
	CategoryUnknown        Category = 520
)

// Code returns the numeric code of the category.
func (c Category) Code() int {
	return int(c)
}

// Name returns the canonical name of the category.
func (c Category) Name() string {
	switch c {
	case CategorySeeOther:
		return "SEE_OTHER"
	case CategoryBadRequest:
		return "BAD_REQUEST"
	case CategoryUnauthorized:
		return "UNAUTHORIZED"
	case CategoryForbidden:
		return "FORBIDDEN"
	case CategoryNotAcceptable:
		return "NOT_ACCEPTABLE"
	case CategoryFlood:
		return "FLOOD"
	case CategoryInternalServer:
		return "INTERNAL_SERVER_ERROR"
	case CategoryUnknown:
		return "UNKNOWN"
	default:
		return "INVALID"
	}
}

// String returns the code and name, e.g. "420 FLOOD".
func (c Category) String() string {
	return strconv.Itoa(int(c)) + " " + c.Name()
}

// IsRetryable returns true if errors in this category may succeed when the
// same request is repeated: flood errors after the announced wait, internal
// server errors after a short delay. SeeOther requires a redirect, not a
// retry, and is therefore not retryable as-is.
func (c Category) IsRetryable() bool {
	switch c {
	case CategoryFlood, CategoryInternalServer:
		return true
	default:
		return false
	}
}

// CategoryForCode maps a raw numeric code to its category. The second return
// is false when the code is not in the fixed table, in which case the
// category is CategoryUnknown.
func CategoryForCode(code int) (Category, bool) {
	switch Category(code) {
	case CategorySeeOther, CategoryBadRequest, CategoryUnauthorized,
		CategoryForbidden, CategoryNotAcceptable, CategoryFlood,
		CategoryInternalServer:
		return Category(code), true
	default:
		return CategoryUnknown, false
	}
}

// Kind identifies a specific named error within a category. The value is the
// canonical tag, with numeric components replaced by an X placeholder
// (FLOOD_WAIT_X, PHONE_MIGRATE_X).
type Kind string

// String returns the canonical tag of the kind.
func (k Kind) String() string {
	return string(k)
}
