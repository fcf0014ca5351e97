package consensus

// NewCoinbaseTx builds the reward transaction paying reward to a P2PKH
// output for pubKeyHash. Its single input references no previous output.
func NewCoinbaseTx(reward uint64, pubKeyHash [20]byte, address string) *Tx {
	script, asm := P2PKHLockingScript(pubKeyHash)
	return &Tx{
		Version:  1,
		Locktime: 0,
		Vin: []TxInput{{
			Txid:       "",
			Vout:       COINBASE_PREVOUT_VOUT,
			Prevout:    TxOutput{},
			Witness:    []string{},
			IsCoinbase: true,
			Sequence:   DEFAULT_SEQUENCE,
		}},
		Vout: []TxOutput{{
			ScriptPubKey:        script,
			ScriptPubKeyAsm:     asm,
			ScriptPubKeyType:    SCRIPT_P2PKH.String(),
			ScriptPubKeyAddress: address,
			Value:               reward,
		}},
	}
}

// WithCoinbase returns a new list with coinbase at index 0.
func WithCoinbase(coinbase *Tx, txs []*Tx) []*Tx {
	out := make([]*Tx, 0, len(txs)+1)
	out = append(out, coinbase)
	return append(out, txs...)
}
