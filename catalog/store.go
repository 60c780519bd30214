package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/uptrace/bun"
)

var _ Catalog = (*Store)(nil)

// Store answers catalog queries straight from the database.
type Store struct {
	db      bun.IDB
	dialect sqlDialect
}

// NewStore creates a Store over db, which may be MySQL (SLiMS) or SQLite.
func NewStore(db bun.IDB) *Store {
	return &Store{db: db, dialect: dialectOf(db)}
}

func specFor(kind Kind) (kindSpec, error) {
	s, ok := kindSpecs[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("catalog: unknown kind %d", int(kind))
	}
	return s, nil
}

type letterRow struct {
	Letter string `bun:"letter"`
	Total  int    `bun:"total"`
}

// LetterCounts counts, per initial letter, the titles linked to an author or
// the facets of the other kinds.
func (s *Store) LetterCounts(ctx context.Context, kind Kind) (LetterCounts, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	name := spec.nameExpr()
	letter := s.dialect.firstLetter(name)

	var query string
	if kind == KindAuthor {
		query = fmt.Sprintf(`SELECT %s AS letter, COUNT(DISTINCT ba.biblio_id) AS total
FROM mst_author AS a
JOIN biblio_author AS ba ON ba.author_id = a.author_id
WHERE %s IS NOT NULL AND %s <> ''
GROUP BY letter`, letter, name, name)
	} else {
		query = fmt.Sprintf(`SELECT %s AS letter, COUNT(*) AS total
FROM %s AS %s
WHERE %s IS NOT NULL AND %s <> ''
GROUP BY letter`, letter, spec.table, spec.alias, name, name)
	}

	var rows []letterRow
	if err := s.db.NewRaw(query).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("letter counts for %s: %w", kind, err)
	}

	counts := LetterCounts{}
	for _, r := range rows {
		if l := ParseLetter(r.Letter); l != "" {
			counts[l] += r.Total
		}
	}
	return counts, nil
}

// FacetsByLetter lists the facets whose name starts with letter, with the
// number of distinct titles attached to each, ordered by name.
func (s *Store) FacetsByLetter(ctx context.Context, kind Kind, letter string) ([]Facet, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	if letter = ParseLetter(letter); letter == "" {
		return nil, nil
	}

	var join, total string
	switch kind {
	case KindAuthor:
		join = "JOIN biblio_author AS ba ON ba.author_id = a.author_id"
		total = "COUNT(DISTINCT ba.biblio_id)"
	case KindTopic:
		join = "LEFT JOIN biblio_topic AS bt ON bt.topic_id = t.topic_id"
		total = "COUNT(DISTINCT bt.biblio_id)"
	case KindGMD:
		join = "LEFT JOIN biblio AS b ON b.gmd_id = g.gmd_id"
		total = "COUNT(DISTINCT b.biblio_id)"
	case KindCollType:
		join = `LEFT JOIN item AS i ON i.coll_type_id = ct.coll_type_id
LEFT JOIN biblio AS b ON b.biblio_id = i.biblio_id`
		total = "COUNT(DISTINCT b.biblio_id)"
	}

	query := fmt.Sprintf(`SELECT %[1]s AS id, %[2]s AS name, %[3]s AS total
FROM %[4]s AS %[5]s
%[6]s
WHERE %[7]s = ?
GROUP BY %[1]s, %[2]s
ORDER BY %[2]s ASC`,
		spec.idExpr(), spec.nameExpr(), total, spec.table, spec.alias, join, s.dialect.firstLetter(spec.nameExpr()))

	facets := []Facet{}
	if err := s.db.NewRaw(query, letter).Scan(ctx, &facets); err != nil {
		return nil, fmt.Errorf("%s facets for %q: %w", kind, letter, err)
	}
	return facets, nil
}

// Facet looks up one facet by id. It returns ErrNotFound for a missing id.
func (s *Store) Facet(ctx context.Context, kind Kind, id int64) (Facet, error) {
	spec, err := specFor(kind)
	if err != nil {
		return Facet{}, err
	}
	if id <= 0 {
		return Facet{}, ErrNotFound
	}

	var f Facet
	switch kind {
	case KindAuthor:
		var m Author
		err = s.db.NewSelect().Model(&m).Where("author_id = ?", id).Limit(1).Scan(ctx)
		f = Facet{ID: m.AuthorID, Name: m.AuthorName}
	case KindTopic:
		var m Topic
		err = s.db.NewSelect().Model(&m).Where("topic_id = ?", id).Limit(1).Scan(ctx)
		f = Facet{ID: m.TopicID, Name: m.Topic}
	case KindGMD:
		var m GMD
		err = s.db.NewSelect().Model(&m).Where("gmd_id = ?", id).Limit(1).Scan(ctx)
		f = Facet{ID: m.GMDID, Name: m.GMDName}
	case KindCollType:
		var m CollType
		err = s.db.NewSelect().Model(&m).Where("coll_type_id = ?", id).Limit(1).Scan(ctx)
		f = Facet{ID: m.CollTypeID, Name: m.CollTypeName}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Facet{}, ErrNotFound
	}
	if err != nil {
		return Facet{}, fmt.Errorf("%s %d: %w", spec.name, id, err)
	}
	return f, nil
}

// titleFilter restricts biblio rows (alias b) to one facet.
func titleFilter(kind Kind) string {
	switch kind {
	case KindAuthor:
		return "b.biblio_id IN (SELECT ba.biblio_id FROM biblio_author AS ba WHERE ba.author_id = ?)"
	case KindTopic:
		return "b.biblio_id IN (SELECT bt.biblio_id FROM biblio_topic AS bt WHERE bt.topic_id = ?)"
	case KindGMD:
		return "b.gmd_id = ?"
	case KindCollType:
		return "b.biblio_id IN (SELECT i.biblio_id FROM item AS i WHERE i.coll_type_id = ?)"
	}
	return "1 = 0"
}

// CountTitles counts the distinct titles attached to a facet.
func (s *Store) CountTitles(ctx context.Context, kind Kind, id int64) (int, error) {
	if _, err := specFor(kind); err != nil {
		return 0, err
	}
	query := "SELECT COUNT(DISTINCT b.biblio_id) FROM biblio AS b WHERE " + titleFilter(kind)

	var n int
	if err := s.db.NewRaw(query, id).Scan(ctx, &n); err != nil {
		return 0, fmt.Errorf("count %s titles: %w", kind, err)
	}
	return n, nil
}

const titleColumns = `b.biblio_id AS biblio_id,
b.title AS title,
COALESCE(b.publish_year, '') AS publish_year,
COALESCE(g.gmd_name, '') AS gmd_name,
COALESCE(p.publisher_name, '') AS publisher_name,
COALESCE(pl.place_name, '') AS place_name`

const titleJoins = `LEFT JOIN mst_gmd AS g ON g.gmd_id = b.gmd_id
LEFT JOIN mst_publisher AS p ON p.publisher_id = b.publisher_id
LEFT JOIN mst_place AS pl ON pl.place_id = b.publish_place_id`

// Titles lists one page of the titles attached to a facet. Author pages are
// ordered by publish year, newest first, then by title; the others by title.
// On an author page the Authors field holds that author only; elsewhere it
// holds every author of the title.
func (s *Store) Titles(ctx context.Context, kind Kind, id int64, page Page) ([]Title, error) {
	if _, err := specFor(kind); err != nil {
		return nil, err
	}

	var query string
	switch kind {
	case KindCollType:
		query = fmt.Sprintf(`SELECT %s,
COALESCE(ci.location_name, '') AS location_name,
COALESCE(ci.item_status_name, '') AS item_status_name,
ci.copies AS copies
FROM biblio AS b
JOIN (
	SELECT i.biblio_id AS biblio_id,
		MIN(ml.location_name) AS location_name,
		MIN(mis.item_status_name) AS item_status_name,
		COUNT(i.item_id) AS copies
	FROM item AS i
	LEFT JOIN mst_location AS ml ON ml.location_id = i.location_id
	LEFT JOIN mst_item_status AS mis ON mis.item_status_id = i.item_status_id
	WHERE i.coll_type_id = ?
	GROUP BY i.biblio_id
) AS ci ON ci.biblio_id = b.biblio_id
%s
ORDER BY b.title ASC, b.biblio_id ASC
LIMIT ? OFFSET ?`, titleColumns, titleJoins)
	case KindAuthor:
		year := s.dialect.fourDigitYear("b.publish_year")
		query = fmt.Sprintf(`SELECT %s
FROM biblio AS b
%s
WHERE %s
ORDER BY (CASE WHEN %s THEN b.publish_year ELSE '0000' END) DESC, b.title ASC, b.biblio_id ASC
LIMIT ? OFFSET ?`, titleColumns, titleJoins, titleFilter(kind), year)
	default:
		query = fmt.Sprintf(`SELECT %s
FROM biblio AS b
%s
WHERE %s
ORDER BY b.title ASC, b.biblio_id ASC
LIMIT ? OFFSET ?`, titleColumns, titleJoins, titleFilter(kind))
	}

	titles := []Title{}
	if err := s.db.NewRaw(query, id, page.PerPage, page.Offset()).Scan(ctx, &titles); err != nil {
		return nil, fmt.Errorf("%s titles: %w", kind, err)
	}

	var only int64
	if kind == KindAuthor {
		only = id
	}
	if err := s.attachAuthors(ctx, titles, only); err != nil {
		return nil, err
	}
	return titles, nil
}

type titleAuthor struct {
	BiblioID   int64  `bun:"biblio_id"`
	AuthorName string `bun:"author_name"`
}

// attachAuthors fills Title.Authors with a second query instead of a
// dialect specific string aggregate. A non-zero onlyAuthor restricts the
// names to that author.
func (s *Store) attachAuthors(ctx context.Context, titles []Title, onlyAuthor int64) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, len(titles))
	for i, t := range titles {
		ids[i] = t.BiblioID
	}

	q := s.db.NewSelect().
		ColumnExpr("ba.biblio_id AS biblio_id").
		ColumnExpr("a.author_name AS author_name").
		TableExpr("biblio_author AS ba").
		Join("JOIN mst_author AS a ON a.author_id = ba.author_id").
		Where("ba.biblio_id IN (?)", bun.In(ids)).
		OrderExpr("ba.biblio_id ASC, a.author_name ASC")
	if onlyAuthor > 0 {
		q = q.Where("ba.author_id = ?", onlyAuthor)
	}

	var rows []titleAuthor
	if err := q.Scan(ctx, &rows); err != nil {
		return fmt.Errorf("title authors: %w", err)
	}

	names := make(map[int64][]string, len(titles))
	for _, r := range rows {
		if n := strings.TrimSpace(r.AuthorName); n != "" {
			names[r.BiblioID] = append(names[r.BiblioID], n)
		}
	}
	for i := range titles {
		titles[i].Authors = strings.Join(names[titles[i].BiblioID], "; ")
	}
	return nil
}

type yearRangeRow struct {
	MinYear string `bun:"min_year"`
	MaxYear string `bun:"max_year"`
}

// YearRange returns the smallest and largest four digit publish year.
func (s *Store) YearRange(ctx context.Context) (YearRange, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MIN(b.publish_year), '') AS min_year,
COALESCE(MAX(b.publish_year), '') AS max_year
FROM biblio AS b
WHERE %s`, s.dialect.fourDigitYear("b.publish_year"))

	var row yearRangeRow
	if err := s.db.NewRaw(query).Scan(ctx, &row); err != nil {
		return YearRange{}, fmt.Errorf("year range: %w", err)
	}

	minYear, _ := strconv.Atoi(row.MinYear)
	maxYear, _ := strconv.Atoi(row.MaxYear)
	return YearRange{Min: minYear, Max: maxYear}, nil
}

type yearRow struct {
	Year  string `bun:"year"`
	Total int    `bun:"total"`
}

// Years counts titles per publish year, newest first. Years outside
// [MinYear, MaxYear] are dropped.
func (s *Store) Years(ctx context.Context) ([]YearCount, error) {
	query := fmt.Sprintf(`SELECT b.publish_year AS year, COUNT(DISTINCT b.biblio_id) AS total
FROM biblio AS b
WHERE %s
GROUP BY b.publish_year
ORDER BY b.publish_year DESC`, s.dialect.fourDigitYear("b.publish_year"))

	var rows []yearRow
	if err := s.db.NewRaw(query).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("years: %w", err)
	}

	years := make([]YearCount, 0, len(rows))
	for _, r := range rows {
		y, err := strconv.Atoi(r.Year)
		if err != nil || !ValidYear(y) {
			continue
		}
		years = append(years, YearCount{Year: y, Total: r.Total})
	}
	return years, nil
}

// CountTitlesByYear counts the titles published in year.
func (s *Store) CountTitlesByYear(ctx context.Context, year int) (int, error) {
	var n int
	err := s.db.NewRaw("SELECT COUNT(DISTINCT b.biblio_id) FROM biblio AS b WHERE b.publish_year = ?",
		strconv.Itoa(year)).Scan(ctx, &n)
	if err != nil {
		return 0, fmt.Errorf("count titles of %d: %w", year, err)
	}
	return n, nil
}

// TitlesByYear lists one page of the titles published in year, by title.
func (s *Store) TitlesByYear(ctx context.Context, year int, page Page) ([]Title, error) {
	query := fmt.Sprintf(`SELECT %s
FROM biblio AS b
%s
WHERE b.publish_year = ?
ORDER BY b.title ASC, b.biblio_id ASC
LIMIT ? OFFSET ?`, titleColumns, titleJoins)

	titles := []Title{}
	if err := s.db.NewRaw(query, strconv.Itoa(year), page.PerPage, page.Offset()).Scan(ctx, &titles); err != nil {
		return nil, fmt.Errorf("titles of %d: %w", year, err)
	}
	if err := s.attachAuthors(ctx, titles, 0); err != nil {
		return nil, err
	}
	return titles, nil
}
