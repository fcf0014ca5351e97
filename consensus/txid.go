package consensus

import (
	"fmt"
	"strings"

	bt "github.com/libsv/go-bt/v2"
	"github.com/libsv/go-bt/v2/bscript"
)

var zeroTxidHex = strings.Repeat("0", 64)

// WireTx builds the legacy (non-witness) wire form of tx: version, inputs
// (prev txid, vout, scriptSig, low 32 bits of sequence), outputs (value, scriptPubKey) and
// locktime. Witness data never contributes to the txid.
func (tx *Tx) WireTx() (*bt.Tx, error) {
	if tx == nil {
		return nil, txerr(TX_ERR_PARSE, "nil tx")
	}
	wt := bt.NewTx()
	wt.Version = uint32(tx.Version)
	wt.LockTime = tx.Locktime
	for i, in := range tx.Vin {
		prevTxid := in.Txid
		if prevTxid == "" {
			prevTxid = zeroTxidHex
		}
		if err := wt.From(prevTxid, in.Vout, in.Prevout.ScriptPubKey, in.Prevout.Value); err != nil {
			return nil, txerrf(TX_ERR_PARSE, "vin[%d]: %v", i, err)
		}
		unlocking, err := bscript.NewFromHexString(in.ScriptSig)
		if err != nil {
			return nil, txerrf(TX_ERR_PARSE, "vin[%d].scriptsig: %v", i, err)
		}
		input := wt.Inputs[len(wt.Inputs)-1]
		input.UnlockingScript = unlocking
		input.SequenceNumber = uint32(in.Sequence)
	}
	for i, out := range tx.Vout {
		locking, err := bscript.NewFromHexString(out.ScriptPubKey)
		if err != nil {
			return nil, txerrf(TX_ERR_PARSE, "vout[%d].scriptpubkey: %v", i, err)
		}
		wt.AddOutput(&bt.Output{Satoshis: out.Value, LockingScript: locking})
	}
	return wt, nil
}

// TxID returns the double SHA-256 of the wire form in internal byte order,
// which is the order merkle leaves use.
func (tx *Tx) TxID() ([32]byte, error) {
	wt, err := tx.WireTx()
	if err != nil {
		return [32]byte{}, err
	}
	return DoubleSha256(wt.Bytes()), nil
}

// TxIDHex returns the txid in the reversed display order used by explorers
// and by the block output file.
func (tx *Tx) TxIDHex() (string, error) {
	wt, err := tx.WireTx()
	if err != nil {
		return "", err
	}
	return wt.TxID(), nil
}

// TxIDs computes the internal-order txid of every transaction in order.
func TxIDs(txs []*Tx) ([][32]byte, error) {
	out := make([][32]byte, 0, len(txs))
	for i, tx := range txs {
		id, err := tx.TxID()
		if err != nil {
			return nil, fmt.Errorf("tx %d: %w", i, err)
		}
		out = append(out, id)
	}
	return out, nil
}
