// Package rpcerr provides structured classification of Telegram RPC error
// outcomes in tgkit. It maps the (numeric code, tag string) pair carried by a
// failed RPC result to a typed error value with a two-level taxonomy of
// categories and kinds.
//
// # Categories
//
// A category is a coarse error class keyed by a stable numeric code,
// analogous to an HTTP status class:
//
//   - 303 SEE_OTHER: the request must be repeated on another datacenter
//   - 400 BAD_REQUEST: the query contains invalid or missing fields
//   - 401 UNAUTHORIZED: the session lacks valid authorization
//   - 403 FORBIDDEN: the action is not permitted
//   - 406 NOT_ACCEPTABLE: the request is valid but cannot be served
//   - 420 FLOOD: rate limiting, carries a wait duration
//   - 500 INTERNAL_SERVER_ERROR: a failure on Telegram's side
//   - 520 UNKNOWN: reserved for codes outside the table above
//
// # Kinds
//
// A kind is a specific named error within a category, keyed by its tag
// (e.g. MESSAGE_EMPTY under 400). Value-carrying tags are registered as
// templates with an X placeholder: FLOOD_WAIT_X matches FLOOD_WAIT_30 and
// the classified error carries 30 as its value.
//
// # Classification
//
// Classify is total: every (code, tag) pair yields a valid *Error. Unknown
// codes resolve to the 520 category; unknown tags within a known category
// resolve to that category's generic kind. Both unknown paths report the raw
// (code, tag) pair to a pluggable Recorder so new server-side errors can be
// collected and added to the table:
//
//	err := rpcerr.Classify(420, "FLOOD_WAIT_30")
//	if secs, ok := rpcerr.WaitDuration(err); ok {
//	    time.Sleep(secs)
//	}
//
// # Matching
//
// Handling mirrors catch-by-specificity: match a specific kind, a whole
// category, or any RPC error at all:
//
//	if rpcerr.Is(err, rpcerr.KindPhoneNumberInvalid) { ... } // exact kind
//	if rpcerr.IsCategory(err, rpcerr.CategoryFlood) { ... }  // whole category
//	if e := rpcerr.As(err); e != nil { ... }                 // any RPC error
package rpcerr
