package web

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/erwansetyobudi/browseby/catalog"
)

// view is the data of one rendered browse page.
type view struct {
	Nav      []navLink
	Page     pageDef
	Subtitle string
	ResetURL string

	Letters    []letterLink
	Letter     string
	ShowFacets bool
	Facets     []facetLink

	ShowYears bool
	Years     []yearLink

	Titles *titlesView
}

type navLink struct {
	Label  string
	URL    string
	Active bool
}

type letterLink struct {
	Letter string
	URL    string
	Count  int
	Active bool
	Off    bool
}

type facetLink struct {
	Name   string
	URL    string
	Total  int
	Active bool
}

type yearLink struct {
	Year   int
	URL    string
	Total  int
	Active bool
}

type titlesView struct {
	Heading   string
	Total     int
	Page      int
	Citations []template.HTML
	Empty     string

	BackURL   string
	BackLabel string

	PrevURL string
	NextURL string
	PerPage []perPageLink
}

type perPageLink struct {
	Size   int
	URL    string
	Active bool
}

// param is one query parameter. Links keep their parameters in the order
// given, so they read the same as the links SLiMS pages print.
type param struct {
	key   string
	value string
}

func str(key, value string) param { return param{key: key, value: value} }
func num(key string, value int64) param {
	return param{key: key, value: strconv.FormatInt(value, 10)}
}

// link builds "{base}index.php?p={page}&k=v...". Empty values are left out.
func (s *Server) link(page string, params ...param) string {
	var b strings.Builder
	b.WriteString(s.baseURL)
	b.WriteString("index.php?p=")
	b.WriteString(url.QueryEscape(page))
	for _, p := range params {
		if p.value == "" {
			continue
		}
		b.WriteByte('&')
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// detailURL links a title to the OPAC record page.
func (s *Server) detailURL(biblioID int64) string {
	return s.link("show_detail", num("id", biblioID))
}

func (s *Server) navLinks(current string) []navLink {
	links := make([]navLink, len(pageDefs))
	for i, def := range pageDefs {
		links[i] = navLink{
			Label:  def.Label,
			URL:    s.link(def.ID),
			Active: def.ID == current,
		}
	}
	return links
}

func (s *Server) letterLinks(pageID, current string, counts catalog.LetterCounts) []letterLink {
	links := make([]letterLink, 0, len(catalog.Letters))
	for _, r := range catalog.Letters {
		l := string(r)
		links = append(links, letterLink{
			Letter: l,
			URL:    s.link(pageID, str("letter", l)),
			Count:  counts[l],
			Active: l == current,
			Off:    counts[l] == 0,
		})
	}
	return links
}

// pager builds the Prev/Next and page size links of a titles card. extra are
// the facet parameters every pager link keeps.
func (s *Server) pager(tv *titlesView, pageID string, page catalog.Page, total int, extra ...param) {
	totalPages := catalog.TotalPages(total, page.PerPage)

	with := func(n, perPage int) []param {
		ps := append([]param(nil), extra...)
		return append(ps, num("page", int64(n)), num("per_page", int64(perPage)))
	}

	if page.Number > 1 {
		tv.PrevURL = s.link(pageID, with(page.Number-1, page.PerPage)...)
	}
	if page.Number < totalPages {
		tv.NextURL = s.link(pageID, with(page.Number+1, page.PerPage)...)
	}
	for _, size := range catalog.PerPageOptions {
		tv.PerPage = append(tv.PerPage, perPageLink{
			Size:   size,
			URL:    s.link(pageID, with(1, size)...),
			Active: size == page.PerPage,
		})
	}
}
