package catalog

import (
	"html/template"
	"strconv"
	"strings"
)

// Field is one part of a citation line.
type Field int

const (
	FieldLead Field = iota
	FieldAuthor
	FieldYear
	FieldGMD
	FieldTitle
	FieldPublisher
	FieldItemMeta
)

// CitationStyle is the ordered list of parts printed for a title.
type CitationStyle []Field

var (
	// Author. (Year). GMD. Title. Place : Publisher.
	AuthorStyle = CitationStyle{FieldAuthor, FieldYear, FieldGMD, FieldTitle, FieldPublisher}
	// (Year). Author. GMD. Title. Publisher.
	YearStyle = CitationStyle{FieldYear, FieldAuthor, FieldGMD, FieldTitle, FieldPublisher}
	// Topic. Author. (Year). GMD. Title. Publisher.
	TopicStyle = CitationStyle{FieldLead, FieldAuthor, FieldYear, FieldGMD, FieldTitle, FieldPublisher}
	// GMD. Author. (Year). Title. Publisher.
	GMDStyle = CitationStyle{FieldLead, FieldAuthor, FieldYear, FieldTitle, FieldPublisher}
	// CollType. Author. (Year). GMD. Title. Publisher. [Lokasi: ... • Status: ... • Eksemplar: n]
	CollTypeStyle = CitationStyle{FieldLead, FieldAuthor, FieldYear, FieldGMD, FieldTitle, FieldPublisher, FieldItemMeta}
)

// StyleFor returns the citation style of a facet page.
func StyleFor(kind Kind) CitationStyle {
	switch kind {
	case KindTopic:
		return TopicStyle
	case KindGMD:
		return GMDStyle
	case KindCollType:
		return CollTypeStyle
	default:
		return AuthorStyle
	}
}

// Format renders t as one citation line. Empty parts are skipped and every
// part ends with exactly one period. lead is the facet name for styles that
// start with it; the title links to detailURL.
func (s CitationStyle) Format(lead string, t Title, detailURL string) template.HTML {
	parts := make([]string, 0, len(s))
	for _, f := range s {
		if p := s.part(f, lead, t, detailURL); p != "" {
			parts = append(parts, p)
		}
	}
	return template.HTML(strings.Join(parts, " "))
}

func (s CitationStyle) part(f Field, lead string, t Title, detailURL string) string {
	switch f {
	case FieldLead:
		return sentence(lead)
	case FieldAuthor:
		return sentence(t.Authors)
	case FieldYear:
		y := strings.TrimSpace(t.PublishYear)
		if y == "" {
			return ""
		}
		return "(" + template.HTMLEscapeString(y) + ")."
	case FieldGMD:
		return sentence(t.GMDName)
	case FieldTitle:
		title := trimPeriod(t.Title)
		if title == "" {
			return ""
		}
		return `<a href="` + template.HTMLEscapeString(detailURL) + `"><em>` +
			template.HTMLEscapeString(title) + `</em></a>.`
	case FieldPublisher:
		return sentence(publication(t.PlaceName, t.PublisherName))
	case FieldItemMeta:
		return itemMeta(t)
	}
	return ""
}

// publication is "Place : Publisher", or whichever of the two is present.
func publication(place, publisher string) string {
	place = trimPeriod(place)
	publisher = trimPeriod(publisher)
	switch {
	case place != "" && publisher != "":
		return place + " : " + publisher
	case publisher != "":
		return publisher
	default:
		return place
	}
}

func itemMeta(t Title) string {
	var meta []string
	if v := strings.TrimSpace(t.LocationName); v != "" {
		meta = append(meta, "Lokasi: "+template.HTMLEscapeString(v))
	}
	if v := strings.TrimSpace(t.ItemStatusName); v != "" {
		meta = append(meta, "Status: "+template.HTMLEscapeString(v))
	}
	if t.Copies > 0 {
		meta = append(meta, "Eksemplar: "+strconv.Itoa(t.Copies))
	}
	if len(meta) == 0 {
		return ""
	}
	return `<span class="bb-meta">[` + strings.Join(meta, " • ") + `]</span>`
}

// sentence escapes s and terminates it with a single period.
func sentence(s string) string {
	s = trimPeriod(s)
	if s == "" {
		return ""
	}
	return template.HTMLEscapeString(s) + "."
}

func trimPeriod(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ". ")
}
