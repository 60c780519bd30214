package catalog

import (
	"strings"
)

const (
	DefaultPerPage = 20
	MinPerPage     = 10
	MaxPerPage     = 100

	MinYear = 1000
	MaxYear = 3000
)

// PerPageOptions are the page sizes offered by the pager.
var PerPageOptions = []int{20, 50, 100}

// Letters is the A-Z index shown on every facet page.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Page is a normalized pagination request.
type Page struct {
	Number  int
	PerPage int
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// ParsePage normalizes the raw "page" and "per_page" query values. The page is
// at least 1; a missing or out of range page size falls back to DefaultPerPage
// below MinPerPage and is clamped to MaxPerPage above it.
func ParsePage(page, perPage string) Page {
	p := Page{Number: 1, PerPage: DefaultPerPage}

	if n := leadingInt(page); n > 1 {
		p.Number = int(n)
	}

	if strings.TrimSpace(perPage) != "" {
		n := leadingInt(perPage)
		switch {
		case n < MinPerPage:
			p.PerPage = DefaultPerPage
		case n > MaxPerPage:
			p.PerPage = MaxPerPage
		default:
			p.PerPage = int(n)
		}
	}
	return p
}

// TotalPages is ceil(total/perPage), zero when there is nothing to page.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// ParseLetter returns the upper-cased letter when raw is a single ASCII letter,
// otherwise "".
func ParseLetter(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return ""
	}
	return s
}

// ParseID returns the integer value of raw, or 0 when it is missing or negative.
func ParseID(raw string) int64 {
	n := leadingInt(raw)
	if n < 0 {
		return 0
	}
	return n
}

// ParseYear returns the year in raw when it lies in [MinYear, MaxYear], otherwise 0.
func ParseYear(raw string) int {
	n := leadingInt(raw)
	if n < MinYear || n > MaxYear {
		return 0
	}
	return int(n)
}

// ValidYear reports whether y would be accepted by ParseYear.
func ValidYear(y int) bool {
	return y >= MinYear && y <= MaxYear
}

// leadingInt reads an optionally signed run of digits after leading
// whitespace and ignores the rest, so "12abc" is 12 and "abc" is 0.
func leadingInt(raw string) int64 {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	const limit = 1 << 53
	var n int64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
		if n > limit {
			n = limit
			break
		}
	}
	if neg {
		return -n
	}
	return n
}
