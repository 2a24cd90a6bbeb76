// Package collection filters and orders the rated-album collection.
package collection

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/tracklist/internal/domain/model"
	"github.com/okian/tracklist/internal/domain/scoring"
)

// Entry is one album of the collection with its computed aggregate.
type Entry struct {
	Album     model.Album
	Aggregate scoring.Aggregate
}

// Query narrows and orders the collection. Zero-value fields do not filter.
// All filters are combined with AND.
type Query struct {
	Name   string // case-insensitive substring of the album name
	Year   *int   // exact release year
	Decade *int   // exact release decade, e.g. 1990
	Genre  string // case-insensitive substring of the album genre

	SortBy SortKey
	Order  Order
}

// Engine applies queries using a collator for one language.
type Engine struct {
	tag language.Tag
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguage sets the collation language used for name and artist sorting.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.tag = tag
	}
}

// NewEngine creates an Engine. The default collation language is English.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{tag: language.English}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the entries matching q in the requested order. The input
// slice is not modified. The sort is stable, so entries that compare equal
// keep their input order.
func (e *Engine) Apply(entries []Entry, q Query) []Entry {
	out := make([]Entry, 0, len(entries))
	name := strings.ToLower(strings.TrimSpace(q.Name))
	genre := strings.ToLower(strings.TrimSpace(q.Genre))
	for _, en := range entries {
		if matches(en.Album, name, genre, q.Year, q.Decade) {
			out = append(out, en)
		}
	}

	// collate.Collator keeps internal buffers; one per call.
	compare := e.comparator(q.SortBy, collate.New(e.tag))
	if q.Order == Desc {
		asc := compare
		compare = func(a, b Entry) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func matches(a model.Album, name, genre string, year, decade *int) bool {
	if name != "" && !strings.Contains(strings.ToLower(a.Name), name) {
		return false
	}
	if genre != "" && (a.Genre == nil || !strings.Contains(strings.ToLower(*a.Genre), genre)) {
		return false
	}
	if year != nil {
		y, ok := a.Year()
		if !ok || y != *year {
			return false
		}
	}
	if decade != nil {
		d, ok := a.Decade()
		if !ok || d != *decade {
			return false
		}
	}
	return true
}

// comparator returns the ascending comparison for key. A missing score or
// year compares as 0.
func (e *Engine) comparator(key SortKey, c *collate.Collator) func(a, b Entry) int {
	switch key {
	case SortByName:
		return func(a, b Entry) int { return c.CompareString(a.Album.Name, b.Album.Name) }
	case SortByArtist:
		return func(a, b Entry) int { return c.CompareString(a.Album.Artist, b.Album.Artist) }
	case SortByYear:
		return func(a, b Entry) int { return cmp.Compare(yearOrZero(a.Album), yearOrZero(b.Album)) }
	default:
		return func(a, b Entry) int {
			return cmp.Compare(a.Aggregate.ScoreOrZero(), b.Aggregate.ScoreOrZero())
		}
	}
}

func yearOrZero(a model.Album) int {
	y, _ := a.Year()
	return y
}

// Facets lists the distinct release decades and years present in entries,
// both ascending.
func Facets(entries []Entry) (decades, years []int) {
	seenD := make(map[int]struct{})
	seenY := make(map[int]struct{})
	for _, en := range entries {
		y, ok := en.Album.Year()
		if !ok {
			continue
		}
		if _, dup := seenY[y]; !dup {
			seenY[y] = struct{}{}
			years = append(years, y)
		}
		d := model.DecadeOf(y)
		if _, dup := seenD[d]; !dup {
			seenD[d] = struct{}{}
			decades = append(decades, d)
		}
	}
	slices.Sort(decades)
	slices.Sort(years)
	return decades, years
}
