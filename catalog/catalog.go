package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a facet id does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Kind identifies a browse facet backed by a lookup table.
type Kind int

const (
	KindAuthor Kind = iota + 1
	KindTopic
	KindGMD
	KindCollType
)

// NamespaceYear is the cache namespace of the year page, which has no lookup table.
const NamespaceYear = "browse_year"

// Kinds lists every facet kind in navigation order.
func Kinds() []Kind {
	return []Kind{KindAuthor, KindTopic, KindGMD, KindCollType}
}

// Namespaces lists every cache namespace owned by the browse pages.
func Namespaces() []string {
	return []string{
		KindAuthor.Namespace(),
		NamespaceYear,
		KindTopic.Namespace(),
		KindGMD.Namespace(),
		KindCollType.Namespace(),
	}
}

func (k Kind) String() string {
	if s, ok := kindSpecs[k]; ok {
		return s.name
	}
	return "unknown"
}

// Namespace returns the cache namespace of the page browsing this kind.
func (k Kind) Namespace() string {
	if s, ok := kindSpecs[k]; ok {
		return s.namespace
	}
	return ""
}

// Param returns the query parameter carrying a facet id of this kind.
func (k Kind) Param() string {
	if s, ok := kindSpecs[k]; ok {
		return s.param
	}
	return ""
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindSpecs[k]
	return ok
}

// LetterCounts maps an initial letter (A-Z) to a count. Letters without
// entries are absent, not zero.
type LetterCounts map[string]int

// Facet is one author, topic, GMD or collection type.
type Facet struct {
	ID    int64  `bun:"id" msgpack:"id"`
	Name  string `bun:"name" msgpack:"name"`
	Total int    `bun:"total" msgpack:"total"`
}

// Title is one bibliographic record as listed on a browse page.
type Title struct {
	BiblioID      int64  `bun:"biblio_id" msgpack:"biblio_id"`
	Title         string `bun:"title" msgpack:"title"`
	PublishYear   string `bun:"publish_year" msgpack:"publish_year"`
	GMDName       string `bun:"gmd_name" msgpack:"gmd_name"`
	PublisherName string `bun:"publisher_name" msgpack:"publisher_name"`
	PlaceName     string `bun:"place_name" msgpack:"place_name"`
	// Authors is "; " joined, in name order.
	Authors string `bun:"-" msgpack:"authors"`

	// Populated on the collection type page only.
	LocationName   string `bun:"location_name" msgpack:"location_name,omitempty"`
	ItemStatusName string `bun:"item_status_name" msgpack:"item_status_name,omitempty"`
	Copies         int    `bun:"copies" msgpack:"copies,omitempty"`
}

// YearRange is the smallest and largest four digit publish year. Both are zero
// when no record has one.
type YearRange struct {
	Min int `msgpack:"min"`
	Max int `msgpack:"max"`
}

// YearCount is the number of titles published in a year.
type YearCount struct {
	Year  int `msgpack:"year"`
	Total int `msgpack:"total"`
}

// Catalog is the read side of the SLiMS catalog used by the browse pages.
type Catalog interface {
	LetterCounts(ctx context.Context, kind Kind) (LetterCounts, error)
	FacetsByLetter(ctx context.Context, kind Kind, letter string) ([]Facet, error)
	Facet(ctx context.Context, kind Kind, id int64) (Facet, error)
	CountTitles(ctx context.Context, kind Kind, id int64) (int, error)
	Titles(ctx context.Context, kind Kind, id int64, page Page) ([]Title, error)

	YearRange(ctx context.Context) (YearRange, error)
	Years(ctx context.Context) ([]YearCount, error)
	CountTitlesByYear(ctx context.Context, year int) (int, error)
	TitlesByYear(ctx context.Context, year int, page Page) ([]Title, error)
}
