package web

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwansetyobudi/browseby/catalog"
)

func TestAuthorPage_Letters(t *testing.T) {
	ts := newSeededServer(t)

	resp, body := get(t, ts, "/index.php?p=browse_author")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, `<a class="bb-chip" href="./index.php?p=browse_author&amp;letter=A" title="3 item">`)
	assert.Contains(t, body, `<a class="bb-chip off" href="./index.php?p=browse_author&amp;letter=C" title="0 item">`)
	assert.NotContains(t, body, "pengarang ditemukan")
	assert.NotContains(t, body, `class="bb-list"`)
}

func TestAuthorPage_FacetsForLetter(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_author&letter=a")
	assert.Contains(t, body, `<a class="bb-chip active" href="./index.php?p=browse_author&amp;letter=A"`)
	assert.Contains(t, body, "Pengarang diawali huruf <strong>A</strong>: 2 pengarang ditemukan")
	assert.Contains(t, body, `href="./index.php?p=browse_author&amp;letter=A&amp;author_id=1"`)
	assert.Less(t, strings.Index(body, "Andi Wijaya"), strings.Index(body, "Ani Suryani"))
}

func TestAuthorPage_SelectedAuthor(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_author&letter=B&author_id=3")
	assert.Contains(t, body, `<h3 class="bb-title small">Budi Santoso</h3>`)
	assert.Contains(t, body, "Total 3 judul • Halaman 1")
	assert.Contains(t, body, `<a class="bb-btn" href="./index.php?p=browse_author&amp;letter=B">← Kembali ke daftar pengarang</a>`)
	assert.NotContains(t, body, "pengarang ditemukan")

	// Newest first; titles without a year go last.
	first := strings.Index(body, "<em>Algoritma Dasar</em>")
	second := strings.Index(body, "<em>Basis Data</em>")
	third := strings.Index(body, "<em>Cerita Rakyat</em>")
	require.Positive(t, first)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestAuthorPage_UnknownAuthorStillShowsCard(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_author&author_id=99")
	assert.Contains(t, body, `<h3 class="bb-title small">Daftar koleksi</h3>`)
	assert.Contains(t, body, "Total 0 judul • Halaman 1")
	assert.Contains(t, body, "Tidak ada judul untuk pengarang ini.")
	assert.NotContains(t, body, "Kembali ke daftar pengarang")
}

func TestTopicPage_SelectedTopic(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_topic&letter=A&tid=1&page=1")
	assert.Contains(t, body, "Topik diawali huruf <strong>A</strong>: 2 topik ditemukan")
	assert.Contains(t, body, `<a class="bb-item active" href="./index.php?p=browse_topic&amp;letter=A&amp;tid=1&amp;page=1">`)
	assert.Contains(t, body, `<h3 class="bb-title small">Algoritma</h3>`)
	assert.Contains(t, body, "Total 2 judul • Halaman 1")
	assert.Contains(t, body, `<a href="./index.php?p=show_detail&amp;id=1"><em>Algoritma Dasar</em></a>`)
	assert.Contains(t, body, `href="./index.php?p=browse_topic&amp;letter=A&amp;tid=1&amp;page=1&amp;per_page=50">50</a>`)
}

func TestTopicPage_UnknownTopicHasNoTitles(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_topic&letter=A&tid=99")
	assert.Contains(t, body, "2 topik ditemukan")
	assert.NotContains(t, body, "judul •")
	assert.NotContains(t, body, "Tidak ada judul untuk topik ini.")
}

func TestTopicPage_EmptyTopic(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_topic&letter=A&tid=3")
	assert.Contains(t, body, `<h3 class="bb-title small">Aljabar</h3>`)
	assert.Contains(t, body, "Tidak ada judul untuk topik ini.")
	assert.NotContains(t, body, `class="bb-pager"`)
}

func TestCollTypePage_ItemMeta(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_coll_type&letter=B&ctid=1")
	assert.Contains(t, body, `<h3 class="bb-title small">Buku Teks</h3>`)
	assert.Contains(t, body, "Total 2 judul • Halaman 1")
	assert.Contains(t, body, "Eksemplar: 2]")
	assert.Contains(t, body, "Lokasi: Perpustakaan Pusat")
}

func TestYearPage(t *testing.T) {
	ts := newSeededServer(t)

	_, body := get(t, ts, "/index.php?p=browse_year")
	assert.Contains(t, body, "(Range: 1999–2020)")
	assert.Less(t, strings.Index(body, "<strong>2020</strong>"), strings.Index(body, "<strong>1999</strong>"))
	assert.NotContains(t, body, `class="bb-list"`)

	_, body = get(t, ts, "/index.php?p=browse_year&year=2020")
	assert.Contains(t, body, `<h3 class="bb-title small">Koleksi tahun 2020</h3>`)
	assert.Contains(t, body, "Total 2 judul • Halaman 1")
	assert.Contains(t, body, `<a class="bb-chip active" href="./index.php?p=browse_year&amp;year=2020">`)

	_, body = get(t, ts, "/index.php?p=browse_year&year=999")
	assert.NotContains(t, body, "Koleksi tahun")
}

func TestPager(t *testing.T) {
	s, err := New(stubCatalog{}, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	tests := []struct {
		name     string
		page     catalog.Page
		total    int
		wantPrev string
		wantNext string
	}{
		{
			name:     "first of three",
			page:     catalog.Page{Number: 1, PerPage: 20},
			total:    45,
			wantNext: "./index.php?p=browse_gmd&gid=2&page=2&per_page=20",
		},
		{
			name:     "middle",
			page:     catalog.Page{Number: 2, PerPage: 20},
			total:    45,
			wantPrev: "./index.php?p=browse_gmd&gid=2&page=1&per_page=20",
			wantNext: "./index.php?p=browse_gmd&gid=2&page=3&per_page=20",
		},
		{
			name:     "last",
			page:     catalog.Page{Number: 3, PerPage: 20},
			total:    45,
			wantPrev: "./index.php?p=browse_gmd&gid=2&page=2&per_page=20",
		},
		{
			name:     "past the end",
			page:     catalog.Page{Number: 9, PerPage: 50},
			total:    45,
			wantPrev: "./index.php?p=browse_gmd&gid=2&page=8&per_page=50",
		},
		{
			name:  "single page",
			page:  catalog.Page{Number: 1, PerPage: 100},
			total: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := &titlesView{}
			s.pager(tv, PageGMD, tt.page, tt.total, str("letter", ""), num("gid", 2))

			assert.Equal(t, tt.wantPrev, tv.PrevURL)
			assert.Equal(t, tt.wantNext, tv.NextURL)
			require.Len(t, tv.PerPage, len(catalog.PerPageOptions))
			for _, pp := range tv.PerPage {
				assert.Equal(t, pp.Size == tt.page.PerPage, pp.Active)
				assert.True(t, strings.HasSuffix(pp.URL, "&page=1&per_page="+strconv.Itoa(pp.Size)))
			}
		})
	}
}

func TestLink_SkipsEmptyValuesAndEscapes(t *testing.T) {
	s, err := New(stubCatalog{}, Options{BaseURL: "https://opac.example.ac.id/slims", Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t,
		"https://opac.example.ac.id/slims/index.php?p=browse_topic&tid=4",
		s.link(PageTopic, str("letter", ""), num("tid", 4)))
	assert.Equal(t,
		"https://opac.example.ac.id/slims/index.php?p=show_detail&id=7",
		s.detailURL(7))
	assert.Equal(t,
		"https://opac.example.ac.id/slims/index.php?p=browse_topic&q=a+%26+b",
		s.link(PageTopic, str("q", "a & b")))
}
