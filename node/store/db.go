package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketMempool = []byte("mempool")
	bucketBlocks  = []byte("blocks")
)

// DB is a single bbolt file holding a pool snapshot and the archive of
// mined blocks.
type DB struct {
	path string
	db   *bolt.DB
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("db path required")
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open bbolt")
	}

	d := &DB{path: path, db: bdb}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketMempool, bucketBlocks} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return errors.Wrapf(err, "create bucket %s", string(b))
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Path() string { return d.path }

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", path)
	}
	return nil
}
