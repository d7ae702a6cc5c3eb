// Package cache provides an on-disk index of primary ids that were already
// written. It is used to detect duplicate ids in inputs that do not fit
// into memory.
package cache

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const idsDir = "ids"

type IDCache struct {
	dir    string
	ids    *badgerDB
	opened bool
}

func NewIDCache(dir string) *IDCache {
	return &IDCache{dir: dir}
}

func (c *IDCache) Open() error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return errors.Wrap(err, "creating cache dir")
	}
	db, err := openBadger(filepath.Join(c.dir, idsDir))
	if err != nil {
		return err
	}
	c.ids = db
	c.opened = true
	return nil
}

// Exists returns true if the cache is open or if a previous cache is
// found in dir.
func (c *IDCache) Exists() bool {
	if c.opened {
		return true
	}
	if _, err := os.Stat(filepath.Join(c.dir, idsDir)); !os.IsNotExist(err) {
		return true
	}
	return false
}

func (c *IDCache) Close() error {
	if c.ids == nil {
		return nil
	}
	err := c.ids.Close()
	c.ids = nil
	c.opened = false
	return errors.Wrap(err, "closing id cache")
}

// Remove closes the cache and removes all files.
func (c *IDCache) Remove() error {
	if err := c.Close(); err != nil {
		return err
	}
	return errors.Wrap(os.RemoveAll(filepath.Join(c.dir, idsDir)), "removing id cache")
}

// Add records id. Returns true if the id was already added. Nodes and
// ways share one id space.
func (c *IDCache) Add(id string) (bool, error) {
	if c.ids == nil {
		return false, errors.New("id cache not opened")
	}
	dup, err := c.ids.PutIfMissing([]byte(id))
	return dup, errors.Wrapf(err, "adding id %s", id)
}
