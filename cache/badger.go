package cache

import (
	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/logging"
)

type badgerDB struct {
	*badger.DB
}

func openBadger(path string) (*badgerDB, error) {
	opts := badger.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = logging.NewBadgerLogger("cache")
	opts.SyncWrites = false
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger db %s", path)
	}
	return &badgerDB{db}, nil
}

// PutIfMissing stores key with an empty value. Returns true if the key
// already existed.
func (db *badgerDB) PutIfMissing(key []byte) (bool, error) {
	existed := false
	err := db.DB.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			existed = true
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(key, nil)
	})
	return existed, err
}
