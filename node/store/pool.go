package store

import (
	"context"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// ImportPool replaces the stored pool snapshot with pool in one transaction.
func (d *DB) ImportPool(ctx context.Context, pool map[string][]byte) (int, error) {
	if d == nil || d.db == nil {
		return 0, errors.New("db: nil")
	}
	n := 0
	err := d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketMempool); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return errors.Wrap(err, "clear mempool bucket")
		}
		b, err := tx.CreateBucket(bucketMempool)
		if err != nil {
			return errors.Wrap(err, "create mempool bucket")
		}
		for key, raw := range pool {
			if ctx != nil {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if key == "" {
				return errors.New("empty pool key")
			}
			if err := b.Put([]byte(key), raw); err != nil {
				return errors.Wrapf(err, "put pool entry %s", key)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// LoadPool returns the stored snapshot; it satisfies node.PoolSource.
func (d *DB) LoadPool(ctx context.Context) (map[string][]byte, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("db: nil")
	}
	pool := make(map[string][]byte)
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMempool).ForEach(func(k, v []byte) error {
			if ctx != nil {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			pool[string(k)] = append([]byte(nil), v...)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "load pool")
	}
	return pool, nil
}
