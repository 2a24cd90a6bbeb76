package collection

import (
	"fmt"
	"strings"
)

// SortKey selects the collection ordering.
type SortKey string

// Supported sort keys.
const (
	SortByRating SortKey = "rating"
	SortByName   SortKey = "name"
	SortByArtist SortKey = "artist"
	SortByYear   SortKey = "year"
)

// Order is the sort direction.
type Order string

// Supported directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseSortKey parses a sort key; empty input selects SortByRating.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByRating, nil
	case SortByRating, SortByName, SortByArtist, SortByYear:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}

// ParseOrder parses a direction; empty input selects Desc.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return Desc, nil
	case Asc, Desc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}
