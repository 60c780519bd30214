package catalog

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// The models below cover the part of the SLiMS schema the browse pages read.
// Only the columns used by the queries are mapped.

type Biblio struct {
	bun.BaseModel `bun:"table:biblio,alias:b"`

	BiblioID       int64  `bun:"biblio_id,pk,autoincrement"`
	Title          string `bun:"title,notnull"`
	PublishYear    string `bun:"publish_year"`
	GMDID          int64  `bun:"gmd_id,nullzero"`
	PublisherID    int64  `bun:"publisher_id,nullzero"`
	PublishPlaceID int64  `bun:"publish_place_id,nullzero"`
}

type Author struct {
	bun.BaseModel `bun:"table:mst_author,alias:a"`

	AuthorID   int64  `bun:"author_id,pk,autoincrement"`
	AuthorName string `bun:"author_name,notnull"`
}

type BiblioAuthor struct {
	bun.BaseModel `bun:"table:biblio_author,alias:ba"`

	BiblioID int64 `bun:"biblio_id,pk"`
	AuthorID int64 `bun:"author_id,pk"`
	Level    int   `bun:"level"`
}

type Topic struct {
	bun.BaseModel `bun:"table:mst_topic,alias:t"`

	TopicID int64  `bun:"topic_id,pk,autoincrement"`
	Topic   string `bun:"topic,notnull"`
}

type BiblioTopic struct {
	bun.BaseModel `bun:"table:biblio_topic,alias:bt"`

	BiblioID int64 `bun:"biblio_id,pk"`
	TopicID  int64 `bun:"topic_id,pk"`
	Level    int   `bun:"level"`
}

type GMD struct {
	bun.BaseModel `bun:"table:mst_gmd,alias:g"`

	GMDID   int64  `bun:"gmd_id,pk,autoincrement"`
	GMDCode string `bun:"gmd_code"`
	GMDName string `bun:"gmd_name,notnull"`
}

type Publisher struct {
	bun.BaseModel `bun:"table:mst_publisher,alias:p"`

	PublisherID   int64  `bun:"publisher_id,pk,autoincrement"`
	PublisherName string `bun:"publisher_name,notnull"`
}

type Place struct {
	bun.BaseModel `bun:"table:mst_place,alias:pl"`

	PlaceID   int64  `bun:"place_id,pk,autoincrement"`
	PlaceName string `bun:"place_name,notnull"`
}

type Item struct {
	bun.BaseModel `bun:"table:item,alias:i"`

	ItemID       int64  `bun:"item_id,pk,autoincrement"`
	BiblioID     int64  `bun:"biblio_id,notnull"`
	ItemCode     string `bun:"item_code"`
	CollTypeID   int64  `bun:"coll_type_id,nullzero"`
	LocationID   string `bun:"location_id,nullzero"`
	ItemStatusID string `bun:"item_status_id,nullzero"`
}

type CollType struct {
	bun.BaseModel `bun:"table:mst_coll_type,alias:ct"`

	CollTypeID   int64  `bun:"coll_type_id,pk,autoincrement"`
	CollTypeName string `bun:"coll_type_name,notnull"`
}

type Location struct {
	bun.BaseModel `bun:"table:mst_location,alias:ml"`

	LocationID   string `bun:"location_id,pk"`
	LocationName string `bun:"location_name"`
}

type ItemStatus struct {
	bun.BaseModel `bun:"table:mst_item_status,alias:mis"`

	ItemStatusID   string `bun:"item_status_id,pk"`
	ItemStatusName string `bun:"item_status_name"`
}

// Models lists every mapped table, in creation order.
func Models() []any {
	return []any{
		(*GMD)(nil),
		(*Publisher)(nil),
		(*Place)(nil),
		(*Biblio)(nil),
		(*Author)(nil),
		(*BiblioAuthor)(nil),
		(*Topic)(nil),
		(*BiblioTopic)(nil),
		(*CollType)(nil),
		(*Location)(nil),
		(*ItemStatus)(nil),
		(*Item)(nil),
	}
}

// CreateSchema creates the mapped tables when they do not exist yet. It is meant
// for local SQLite catalogs and tests; a SLiMS database already has them.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}
