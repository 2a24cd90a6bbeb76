package model

import "errors"

// Sentinel kinds for request validation errors.
var (
	ErrMissingTrackID      = errors.New("track id is required")
	ErrMissingAlbumID      = errors.New("album id is required")
	ErrMissingDimension    = errors.New("rating dimension is required")
	ErrDimensionOutOfRange = errors.New("rating dimension out of range")
)

// IsValidationError reports whether err is a client-side request error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTrackID) ||
		errors.Is(err, ErrMissingAlbumID) ||
		errors.Is(err, ErrMissingDimension) ||
		errors.Is(err, ErrDimensionOutOfRange)
}
