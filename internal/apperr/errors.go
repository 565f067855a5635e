// Package apperr defines the error taxonomy shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound marks an absent article, tag, or slug. Expected outcome
	// of normal operation, not exceptional.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks an unreachable or erroring metadata store.
	// Always propagated on read paths that feed primary content.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrWriteFailed marks a rejected or failed mutation. No partial
	// effect is visible to subsequent reads.
	ErrWriteFailed = errors.New("write failed")

	// ErrParseFailure marks malformed front-matter or a body compile
	// error. Downgraded to ErrNotFound at the content store boundary.
	ErrParseFailure = errors.New("parse failure")
)
