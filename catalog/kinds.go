package catalog

// kindSpec describes a facet table and the cache key names of its page.
type kindSpec struct {
	name      string
	namespace string
	param     string

	table   string
	alias   string
	idCol   string
	nameCol string

	facetsKey string
	infoKey   string
	countKey  string
	itemsKey  string
}

var kindSpecs = map[Kind]kindSpec{
	KindAuthor: {
		name:      "author",
		namespace: "browse_author",
		param:     "author_id",
		table:     "mst_author",
		alias:     "a",
		idCol:     "author_id",
		nameCol:   "author_name",
		facetsKey: "authors_by_letter",
		infoKey:   "author_info",
		countKey:  "items_count_by_author",
		itemsKey:  "items_by_author",
	},
	KindTopic: {
		name:      "topic",
		namespace: "browse_topic",
		param:     "tid",
		table:     "mst_topic",
		alias:     "t",
		idCol:     "topic_id",
		nameCol:   "topic",
		facetsKey: "topics_by_letter",
		infoKey:   "topic_info",
		countKey:  "items_count_by_topic",
		itemsKey:  "items_by_topic",
	},
	KindGMD: {
		name:      "gmd",
		namespace: "browse_gmd",
		param:     "gid",
		table:     "mst_gmd",
		alias:     "g",
		idCol:     "gmd_id",
		nameCol:   "gmd_name",
		facetsKey: "gmds_by_letter",
		infoKey:   "gmd_info",
		countKey:  "items_count_by_gmd",
		itemsKey:  "items_by_gmd",
	},
	KindCollType: {
		name:      "coll_type",
		namespace: "browse_coll_type",
		param:     "ctid",
		table:     "mst_coll_type",
		alias:     "ct",
		idCol:     "coll_type_id",
		nameCol:   "coll_type_name",
		facetsKey: "colltypes_by_letter",
		infoKey:   "ct_info",
		countKey:  "items_count_by_ct",
		itemsKey:  "items_by_ct",
	},
}

func (s kindSpec) nameExpr() string { return s.alias + "." + s.nameCol }
func (s kindSpec) idExpr() string   { return s.alias + "." + s.idCol }
