package consensus

// TxOutput is a locking script with its value. The same shape is used for
// the materialized prevout of an input, so spends need no UTXO lookup.
type TxOutput struct {
	ScriptPubKey        string `json:"scriptpubkey"`
	ScriptPubKeyAsm     string `json:"scriptpubkey_asm"`
	ScriptPubKeyType    string `json:"scriptpubkey_type"`
	ScriptPubKeyAddress string `json:"scriptpubkey_address"`
	Value               uint64 `json:"value"`
}

type TxInput struct {
	Txid         string   `json:"txid"`
	Vout         uint32   `json:"vout"`
	Prevout      TxOutput `json:"prevout"`
	ScriptSig    string   `json:"scriptsig"`
	ScriptSigAsm string   `json:"scriptsig_asm"`
	Witness      []string `json:"witness"`
	IsCoinbase   bool     `json:"is_coinbase"`
	Sequence     uint64   `json:"sequence"`
}

type Tx struct {
	Version  int32      `json:"version"`
	Locktime uint32     `json:"locktime"`
	Vin      []TxInput  `json:"vin"`
	Vout     []TxOutput `json:"vout"`
}

// Outpoint is the "txid:vout" key of the output an input spends.
func (in TxInput) Outpoint() string {
	return in.Txid + ":" + u32String(in.Vout)
}

// IsCoinbase reports whether tx has the reward-transaction shape: exactly one
// input, flagged coinbase, referencing no previous transaction.
func (tx *Tx) IsCoinbase() bool {
	if tx == nil || len(tx.Vin) != 1 {
		return false
	}
	in := tx.Vin[0]
	return in.IsCoinbase && in.Txid == ""
}

// InputValue sums prevout values, failing on uint64 overflow.
func (tx *Tx) InputValue() (uint64, error) {
	var sum uint64
	var err error
	for _, in := range tx.Vin {
		sum, err = addUint64(sum, in.Prevout.Value)
		if err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// OutputValue sums output values, failing on uint64 overflow.
func (tx *Tx) OutputValue() (uint64, error) {
	var sum uint64
	var err error
	for _, out := range tx.Vout {
		sum, err = addUint64(sum, out.Value)
		if err != nil {
			return 0, err
		}
	}
	return sum, nil
}
