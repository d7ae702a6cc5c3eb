// Package database loads the CSV tables into a SQL database.
package database

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/shape"
)

type Config struct {
	ConnectionParams string
}

type DB interface {
	// Init drops and creates all tables.
	Init() error
	// Begin starts a new transaction for inserts into table.
	Begin(table *shape.Table) (TableTx, error)
	// Sample returns up to n rows of table.
	Sample(table *shape.Table, n int) ([][]string, error)
	Close() error
}

type TableTx interface {
	Insert(row []interface{}) error
	Commit() error
	Rollback()
}

var databases map[string]func(Config) (DB, error)

func init() {
	databases = make(map[string]func(Config) (DB, error))
}

func Register(name string, f func(Config) (DB, error)) {
	databases[name] = f
}

// Open opens the database for the type of conf.ConnectionParams.
func Open(conf Config) (DB, error) {
	connType := ConnectionType(conf.ConnectionParams)
	newFunc, ok := databases[connType]
	if !ok {
		return nil, errors.Errorf("unsupported database type: %q", connType)
	}

	db, err := newFunc(conf)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// ConnectionType returns the scheme of the connection params,
// e.g. sqlite for sqlite:/tmp/osm.db.
func ConnectionType(param string) string {
	parts := strings.SplitN(param, ":", 2)
	return parts[0]
}
