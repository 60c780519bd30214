package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/erwansetyobudi/browseby/catalog"
)

// pageDef describes one browse page. Year has no facet kind.
type pageDef struct {
	ID      string
	Label   string
	Kind    catalog.Kind
	Heading string
	Intro   string

	FacetPrefix string // "Topik diawali huruf"
	FacetNoun   string // "topik ditemukan"
	NoFacets    string
	TitlesLabel string // heading when the facet name is unknown
	NoTitles    string
	BackLabel   string
}

const (
	PageAuthor   = "browse_author"
	PageYear     = "browse_year"
	PageTopic    = "browse_topic"
	PageGMD      = "browse_gmd"
	PageCollType = "browse_coll_type"
)

// pageDefs is in navigation order.
var pageDefs = []pageDef{
	{
		ID:          PageAuthor,
		Label:       "Author",
		Kind:        catalog.KindAuthor,
		Heading:     "Browse by Author",
		Intro:       "Klik huruf untuk melihat daftar pengarang, lalu klik pengarang untuk melihat koleksi.",
		FacetPrefix: "Pengarang diawali huruf",
		FacetNoun:   "pengarang ditemukan",
		NoFacets:    "Tidak ada data pengarang untuk huruf ini.",
		TitlesLabel: "Daftar koleksi",
		NoTitles:    "Tidak ada judul untuk pengarang ini.",
		BackLabel:   "← Kembali ke daftar pengarang",
	},
	{
		ID:          PageYear,
		Label:       "Year",
		Heading:     "Browse by Year",
		Intro:       "Pilih tahun terbit untuk melihat daftar koleksi.",
		NoFacets:    "Tidak ada data tahun terbit (publish_year 4 digit) ditemukan.",
		TitlesLabel: "Koleksi tahun",
		NoTitles:    "Tidak ada judul pada tahun ini.",
	},
	{
		ID:          PageTopic,
		Label:       "Topic",
		Kind:        catalog.KindTopic,
		Heading:     "Browse by Topic",
		Intro:       "Pilih huruf A–Z untuk menampilkan daftar topik, lalu klik topik untuk melihat koleksi.",
		FacetPrefix: "Topik diawali huruf",
		FacetNoun:   "topik ditemukan",
		NoFacets:    "Tidak ada topik pada huruf ini.",
		NoTitles:    "Tidak ada judul untuk topik ini.",
		BackLabel:   "← Kembali ke daftar topik",
	},
	{
		ID:          PageGMD,
		Label:       "GMD",
		Kind:        catalog.KindGMD,
		Heading:     "Browse by GMD",
		Intro:       "Pilih huruf A–Z untuk menampilkan daftar GMD, lalu klik GMD untuk melihat koleksi.",
		FacetPrefix: "GMD diawali huruf",
		FacetNoun:   "GMD ditemukan",
		NoFacets:    "Tidak ada GMD pada huruf ini.",
		NoTitles:    "Tidak ada judul untuk GMD ini.",
		BackLabel:   "← Kembali ke daftar GMD",
	},
	{
		ID:          PageCollType,
		Label:       "Koleksi Tipe",
		Kind:        catalog.KindCollType,
		Heading:     "Browse by Koleksi Tipe",
		Intro:       "Pilih huruf A–Z untuk menampilkan daftar koleksi tipe, lalu klik untuk melihat koleksi.",
		FacetPrefix: "Koleksi tipe diawali huruf",
		FacetNoun:   "koleksi tipe ditemukan",
		NoFacets:    "Tidak ada koleksi tipe pada huruf ini.",
		NoTitles:    "Tidak ada judul pada koleksi tipe ini.",
		BackLabel:   "← Kembali",
	},
}

func lookupPage(id string) (pageDef, bool) {
	for _, def := range pageDefs {
		if def.ID == id {
			return def, true
		}
	}
	return pageDef{}, false
}

// facetPage serves the author, topic, GMD and collection type pages.
func (s *Server) facetPage(w http.ResponseWriter, r *http.Request, def pageDef) {
	q := r.URL.Query()
	kind := def.Kind
	letter := catalog.ParseLetter(q.Get("letter"))
	id := catalog.ParseID(q.Get(kind.Param()))
	page := catalog.ParsePage(q.Get("page"), q.Get("per_page"))

	// The author list is replaced by the titles card once an author is picked.
	showFacets := letter != "" && (kind != catalog.KindAuthor || id == 0)

	var (
		counts catalog.LetterCounts
		facets []catalog.Facet
		facet  catalog.Facet
		found  bool
		total  int
		titles []catalog.Title
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		counts, err = s.catalog.LetterCounts(ctx, kind)
		return err
	})
	if showFacets {
		g.Go(func() (err error) {
			facets, err = s.catalog.FacetsByLetter(ctx, kind, letter)
			return err
		})
	}
	if id > 0 {
		g.Go(func() error {
			f, err := s.catalog.Facet(ctx, kind, id)
			if errors.Is(err, catalog.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			facet, found = f, f.Name != ""
			return nil
		})
		g.Go(func() (err error) {
			total, err = s.catalog.CountTitles(ctx, kind, id)
			return err
		})
		g.Go(func() (err error) {
			titles, err = s.catalog.Titles(ctx, kind, id, page)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(w, r, fmt.Errorf("%s: %w", def.ID, err))
		return
	}

	v := view{
		Nav:        s.navLinks(def.ID),
		Page:       def,
		Subtitle:   def.Intro,
		ResetURL:   s.link(def.ID),
		Letters:    s.letterLinks(def.ID, letter, counts),
		Letter:     letter,
		ShowFacets: showFacets,
	}
	for _, f := range facets {
		params := []param{str("letter", letter), num(kind.Param(), f.ID)}
		if kind != catalog.KindAuthor {
			params = append(params, num("page", 1))
		}
		v.Facets = append(v.Facets, facetLink{
			Name:   f.Name,
			URL:    s.link(def.ID, params...),
			Total:  f.Total,
			Active: f.ID == id,
		})
	}

	// Authors always get a titles card for a positive id; the other pages
	// only for a facet that exists.
	if id > 0 && (found || kind == catalog.KindAuthor) {
		heading := facet.Name
		if heading == "" {
			heading = def.TitlesLabel
		}
		lead := ""
		if kind != catalog.KindAuthor {
			lead = facet.Name
		}

		tv := &titlesView{
			Heading:   heading,
			Total:     total,
			Page:      page.Number,
			Citations: s.citations(catalog.StyleFor(kind), lead, titles),
			Empty:     def.NoTitles,
		}
		if letter != "" {
			tv.BackURL = s.link(def.ID, str("letter", letter))
			tv.BackLabel = def.BackLabel
		}
		s.pager(tv, def.ID, page, total, str("letter", letter), num(kind.Param(), id))
		v.Titles = tv
	}

	s.render(w, r, v)
}

// yearPage serves the year page.
func (s *Server) yearPage(w http.ResponseWriter, r *http.Request, def pageDef) {
	q := r.URL.Query()
	year := catalog.ParseYear(q.Get("year"))
	page := catalog.ParsePage(q.Get("page"), q.Get("per_page"))

	var (
		rng    catalog.YearRange
		years  []catalog.YearCount
		total  int
		titles []catalog.Title
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		rng, err = s.catalog.YearRange(ctx)
		return err
	})
	g.Go(func() (err error) {
		years, err = s.catalog.Years(ctx)
		return err
	})
	if year > 0 {
		g.Go(func() (err error) {
			total, err = s.catalog.CountTitlesByYear(ctx, year)
			return err
		})
		g.Go(func() (err error) {
			titles, err = s.catalog.TitlesByYear(ctx, year, page)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(w, r, fmt.Errorf("%s: %w", def.ID, err))
		return
	}

	v := view{
		Nav:       s.navLinks(def.ID),
		Page:      def,
		Subtitle:  fmt.Sprintf("%s (Range: %d–%d)", def.Intro, rng.Min, rng.Max),
		ResetURL:  s.link(def.ID),
		ShowYears: true,
	}
	for _, y := range years {
		v.Years = append(v.Years, yearLink{
			Year:   y.Year,
			URL:    s.link(def.ID, num("year", int64(y.Year))),
			Total:  y.Total,
			Active: y.Year == year,
		})
	}

	if year > 0 {
		tv := &titlesView{
			Heading:   fmt.Sprintf("%s %d", def.TitlesLabel, year),
			Total:     total,
			Page:      page.Number,
			Citations: s.citations(catalog.YearStyle, "", titles),
			Empty:     def.NoTitles,
		}
		s.pager(tv, def.ID, page, total, num("year", int64(year)))
		v.Titles = tv
	}

	s.render(w, r, v)
}

func (s *Server) citations(style catalog.CitationStyle, lead string, titles []catalog.Title) []template.HTML {
	lines := make([]template.HTML, len(titles))
	for i, t := range titles {
		lines[i] = style.Format(lead, t, s.detailURL(t.BiblioID))
	}
	return lines
}
