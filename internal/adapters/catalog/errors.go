package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrUpstream        = errors.New("catalog request failed")
	ErrCatalogDisabled = errors.New("catalog is not configured")
	ErrAlbumNotFound   = errors.New("album not found in catalog")
	ErrEmptyQuery      = errors.New("search query is required")
)
