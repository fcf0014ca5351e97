package consensus

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// EMPTY_MERKLE_ROOT is the commitment of an empty transaction list.
var EMPTY_MERKLE_ROOT [32]byte

type MerkleConvention string

const (
	// MERKLE_TXID_TREE pairs internal-order txids level by level.
	MERKLE_TXID_TREE MerkleConvention = "txid-tree"
	// MERKLE_JSON_FLAT is the legacy commitment: one double SHA-256 over the
	// concatenated hex digests of each transaction's JSON. It is not a tree.
	MERKLE_JSON_FLAT MerkleConvention = "json-flat"
)

func ParseMerkleConvention(s string) (MerkleConvention, error) {
	switch MerkleConvention(s) {
	case MERKLE_TXID_TREE, MERKLE_JSON_FLAT:
		return MerkleConvention(s), nil
	case "":
		return MERKLE_TXID_TREE, nil
	default:
		return "", txerrf(BLOCK_ERR_MERKLE_INVALID, "unknown merkle convention %q", s)
	}
}

// MerkleRootTxids reduces internal-order txids to one commitment, also in
// internal order. Odd levels pair the last node with itself.
func MerkleRootTxids(txids [][32]byte) [32]byte {
	if len(txids) == 0 {
		return EMPTY_MERKLE_ROOT
	}

	level := append([][32]byte(nil), txids...)
	var nodePreimage [64]byte
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			copy(nodePreimage[:32], level[i][:])
			copy(nodePreimage[32:], right[:])
			next = append(next, DoubleSha256(nodePreimage[:]))
		}
		level = next
	}
	return level[0]
}

func merkleRootJSONFlat(txs []*Tx) ([32]byte, error) {
	if len(txs) == 0 {
		return EMPTY_MERKLE_ROOT, nil
	}
	concat := make([]byte, 0, 64*len(txs))
	for i, tx := range txs {
		raw, err := json.Marshal(tx)
		if err != nil {
			return [32]byte{}, fmt.Errorf("tx %d: %w", i, err)
		}
		d := DoubleSha256(raw)
		concat = append(concat, hex.EncodeToString(d[:])...)
	}
	return DoubleSha256(concat), nil
}

// MerkleRoot computes the commitment for txs under the given convention.
func MerkleRoot(convention MerkleConvention, txs []*Tx) ([32]byte, error) {
	switch convention {
	case MERKLE_TXID_TREE, "":
		txids, err := TxIDs(txs)
		if err != nil {
			return [32]byte{}, err
		}
		return MerkleRootTxids(txids), nil
	case MERKLE_JSON_FLAT:
		return merkleRootJSONFlat(txs)
	default:
		return [32]byte{}, txerrf(BLOCK_ERR_MERKLE_INVALID, "unknown merkle convention %q", string(convention))
	}
}
