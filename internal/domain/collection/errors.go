package collection

import "errors"

// Sentinel kinds for query parsing errors.
var (
	ErrInvalidSortKey = errors.New("invalid sort key")
	ErrInvalidOrder   = errors.New("invalid sort order")
)
