package store

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

type archivedBlock struct {
	HeaderHex string           `json:"header_hex"`
	Block     *consensus.Block `json:"block"`
}

// WriteBlock archives block under its header hash; it satisfies
// node.BlockWriter.
func (d *DB) WriteBlock(ctx context.Context, block *consensus.Block) error {
	if d == nil || d.db == nil {
		return errors.New("db: nil")
	}
	if block == nil {
		return errors.New("nil block")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	headerHex, err := block.Header.Hex()
	if err != nil {
		return err
	}
	hash, err := block.Header.Hash()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(archivedBlock{HeaderHex: headerHex, Block: block})
	if err != nil {
		return errors.Wrap(err, "encode block")
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketBlocks).Put(hash[:], raw); err != nil {
			return errors.Wrapf(err, "put block %s", hex.EncodeToString(hash[:]))
		}
		return nil
	})
}

// GetBlock looks up an archived block by its display-order hash.
func (d *DB) GetBlock(hash [32]byte) (*consensus.Block, bool, error) {
	if d == nil || d.db == nil {
		return nil, false, errors.New("db: nil")
	}
	var raw []byte
	if err := d.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketBlocks).Get(hash[:]); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	var rec archivedBlock
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, errors.Wrapf(err, "decode block %s", hex.EncodeToString(hash[:]))
	}
	if rec.Block == nil {
		return nil, false, errors.Errorf("block %s: empty record", hex.EncodeToString(hash[:]))
	}
	got, err := rec.Block.Header.Hex()
	if err != nil {
		return nil, false, err
	}
	if got != rec.HeaderHex {
		return nil, false, errors.Errorf("block %s: header mismatch", hex.EncodeToString(hash[:]))
	}
	return rec.Block, true, nil
}

// BlockHashes lists archived block hashes in key order.
func (d *DB) BlockHashes() ([][32]byte, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("db: nil")
	}
	var out [][32]byte
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlocks).ForEach(func(k, _ []byte) error {
			if len(k) != 32 {
				return errors.Errorf("bad block key length %d", len(k))
			}
			var h [32]byte
			copy(h[:], k)
			out = append(out, h)
			return nil
		})
	})
	return out, err
}
