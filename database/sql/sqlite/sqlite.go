// Package sqlite loads the tables into a SQLite file.
package sqlite

import (
	sqld "database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/omniscale/osmcsv/database"
	"github.com/omniscale/osmcsv/database/sql"
)

// New opens the SQLite database from connection params like
// sqlite:/path/to/osm.db. The file is created if it does not exist.
func New(conf database.Config) (database.DB, error) {
	db := &sql.SQLDB{
		Config: conf,
		QB:     &QueryBuilder{},
	}
	db.Params = strings.TrimPrefix(conf.ConnectionParams, "sqlite:")
	db.Params = strings.TrimPrefix(db.Params, "//")
	if db.Params == "" {
		return nil, errors.New("missing sqlite file name")
	}

	var err error
	db.Db, err = sqld.Open("sqlite", db.Params)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite")
	}
	// a single connection, transactions would block each other otherwise
	db.Db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Db.Exec(pragma); err != nil {
			db.Db.Close()
			return nil, errors.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return db, nil
}

func init() {
	database.Register("sqlite", New)
}
