package consensus

import (
	"encoding/hex"
	"math/big"
)

// Block owns its header and transaction list. Txs[0] is the reward
// transaction once it has been injected.
type Block struct {
	Header BlockHeader `json:"header"`
	Txs    []*Tx       `json:"transactions"`
}

// AssembleBlock commits to txs as given (already validated, reward first)
// and builds a header with nonce 0. prevBlockRef is hex copied verbatim into
// the header.
func AssembleBlock(txs []*Tx, prevBlockRef string, time uint32, target *big.Int, convention MerkleConvention) (*Block, error) {
	if err := ValidateTarget(target); err != nil {
		return nil, err
	}
	root, err := MerkleRoot(convention, txs)
	if err != nil {
		return nil, err
	}
	header := BlockHeader{
		Version:       BLOCK_VERSION,
		PrevBlockHash: prevBlockRef,
		MerkleRoot:    hex.EncodeToString(root[:]),
		Time:          time,
		Bits:          CompressTarget(target),
		Nonce:         0,
	}
	if _, err := header.Bytes(); err != nil {
		return nil, err
	}
	return &Block{
		Header: header,
		Txs:    append([]*Tx(nil), txs...),
	}, nil
}

// TxIDHexes lists every transaction's display txid in block order.
func (b *Block) TxIDHexes() ([]string, error) {
	out := make([]string, 0, len(b.Txs))
	for _, tx := range b.Txs {
		id, err := tx.TxIDHex()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
