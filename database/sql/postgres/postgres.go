// Package postgres loads the tables into PostgreSQL with COPY.
package postgres

import (
	sqld "database/sql"
	"strings"

	pq "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/database"
	"github.com/omniscale/osmcsv/database/sql"
)

// New opens a PostgreSQL database. The optional schema URL parameter
// selects the schema of all tables.
func New(conf database.Config) (database.DB, error) {
	db := &sql.SQLDB{
		Config:        conf,
		BulkSupported: true,
	}

	connParams := conf.ConnectionParams
	if strings.HasPrefix(connParams, "postgresql://") {
		connParams = strings.Replace(connParams, "postgresql", "postgres", 1)
	}

	params, err := pq.ParseURL(connParams)
	if err != nil {
		return nil, errors.Wrap(err, "parsing connection params")
	}
	params = disableDefaultSslOnLocalhost(params)
	var schema string
	params, schema = stripSchemaFromConnectionParams(params)
	db.QB = &QueryBuilder{Schema: schema}
	db.Params = params

	db.Db, err = sqld.Open("postgres", db.Params)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	if err := db.Db.Ping(); err != nil {
		db.Db.Close()
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	return db, nil
}

func init() {
	database.Register("postgres", New)
	database.Register("postgresql", New)
}
