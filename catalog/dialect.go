package catalog

import (
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// sqlDialect renders the few expressions that differ between MySQL, which SLiMS
// runs on, and SQLite, used for local catalogs and tests.
type sqlDialect struct {
	name dialect.Name
}

func dialectOf(db bun.IDB) sqlDialect {
	return sqlDialect{name: db.Dialect().Name()}
}

// firstLetter is the upper-cased first character of col.
func (d sqlDialect) firstLetter(col string) string {
	if d.name == dialect.SQLite {
		return "UPPER(SUBSTR(" + col + ", 1, 1))"
	}
	return "UPPER(LEFT(" + col + ", 1))"
}

// fourDigitYear is true when col holds exactly four ASCII digits.
func (d sqlDialect) fourDigitYear(col string) string {
	if d.name == dialect.SQLite {
		return "(LENGTH(" + col + ") = 4 AND " + col + " GLOB '[0-9][0-9][0-9][0-9]')"
	}
	return col + " REGEXP '^[0-9]{4}$'"
}
