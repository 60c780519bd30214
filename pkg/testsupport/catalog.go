package testsupport

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erwansetyobudi/browseby/catalog"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenCatalogDB opens an in-memory SQLite database with the catalog schema and
// the SeedCatalog rows. It is closed when the test ends.
func OpenCatalogDB(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// Every connection to ":memory:" is a new database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := catalog.CreateSchema(ctx, db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := SeedCatalog(ctx, db); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return db
}

// SeedCatalog inserts a small library:
//
//	1 Algoritma Dasar  2020  Text                Andi Wijaya; Budi Santoso  topic Algoritma  Buku Teks x2
//	2 Basis Data       2018  Text                Budi Santoso               topic Basis Data Buku Teks x1
//	3 Cerita Rakyat    n.d.  Electronic Resource Ani Suryani; Budi Santoso               Referensi x1
//	4 Aljabar Linear   2020  Electronic Resource Andi Wijaya                topic Algoritma
//	5 Zoologi          1999  Text                Zainal
//
// Author 4 has an empty name, topic Aljabar and GMD Audio have no titles.
func SeedCatalog(ctx context.Context, db bun.IDB) error {
	rows := []any{
		&[]catalog.GMD{
			{GMDID: 1, GMDCode: "TE", GMDName: "Text"},
			{GMDID: 2, GMDCode: "ER", GMDName: "Electronic Resource"},
			{GMDID: 3, GMDCode: "AU", GMDName: "Audio"},
		},
		&[]catalog.Publisher{
			{PublisherID: 1, PublisherName: "Gramedia"},
			{PublisherID: 2, PublisherName: "Erlangga."},
		},
		&[]catalog.Place{
			{PlaceID: 1, PlaceName: "Jakarta"},
			{PlaceID: 2, PlaceName: "Bandung"},
		},
		&[]catalog.Biblio{
			{BiblioID: 1, Title: "Algoritma Dasar", PublishYear: "2020", GMDID: 1, PublisherID: 1, PublishPlaceID: 1},
			{BiblioID: 2, Title: "Basis Data", PublishYear: "2018", GMDID: 1, PublisherID: 2, PublishPlaceID: 2},
			{BiblioID: 3, Title: "Cerita Rakyat", PublishYear: "n.d.", GMDID: 2},
			{BiblioID: 4, Title: "Aljabar Linear", PublishYear: "2020", GMDID: 2, PublisherID: 1},
			{BiblioID: 5, Title: "Zoologi", PublishYear: "1999", GMDID: 1, PublisherID: 1, PublishPlaceID: 1},
		},
		&[]catalog.Author{
			{AuthorID: 1, AuthorName: "Andi Wijaya"},
			{AuthorID: 2, AuthorName: "Ani Suryani"},
			{AuthorID: 3, AuthorName: "Budi Santoso"},
			{AuthorID: 4, AuthorName: ""},
			{AuthorID: 5, AuthorName: "Zainal"},
		},
		&[]catalog.BiblioAuthor{
			{BiblioID: 1, AuthorID: 1, Level: 1},
			{BiblioID: 1, AuthorID: 3, Level: 2},
			{BiblioID: 2, AuthorID: 3, Level: 1},
			{BiblioID: 3, AuthorID: 2, Level: 1},
			{BiblioID: 3, AuthorID: 3, Level: 2},
			{BiblioID: 3, AuthorID: 4, Level: 2},
			{BiblioID: 4, AuthorID: 1, Level: 1},
			{BiblioID: 5, AuthorID: 5, Level: 1},
		},
		&[]catalog.Topic{
			{TopicID: 1, Topic: "Algoritma"},
			{TopicID: 2, Topic: "Basis Data"},
			{TopicID: 3, Topic: "Aljabar"},
		},
		&[]catalog.BiblioTopic{
			{BiblioID: 1, TopicID: 1, Level: 1},
			{BiblioID: 4, TopicID: 1, Level: 1},
			{BiblioID: 2, TopicID: 2, Level: 1},
		},
		&[]catalog.CollType{
			{CollTypeID: 1, CollTypeName: "Buku Teks"},
			{CollTypeID: 2, CollTypeName: "Referensi"},
		},
		&[]catalog.Location{
			{LocationID: "PST", LocationName: "Perpustakaan Pusat"},
		},
		&[]catalog.ItemStatus{
			{ItemStatusID: "R", ItemStatusName: "Repair"},
		},
		&[]catalog.Item{
			{ItemID: 1, BiblioID: 1, ItemCode: "B0001", CollTypeID: 1, LocationID: "PST"},
			{ItemID: 2, BiblioID: 1, ItemCode: "B0002", CollTypeID: 1, LocationID: "PST", ItemStatusID: "R"},
			{ItemID: 3, BiblioID: 2, ItemCode: "B0003", CollTypeID: 1, LocationID: "PST"},
			{ItemID: 4, BiblioID: 3, ItemCode: "R0001", CollTypeID: 2},
		},
	}

	for _, model := range rows {
		if _, err := db.NewInsert().Model(model).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
