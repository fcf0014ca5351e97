package consensus

import (
	"encoding/hex"
	"math/big"
	"testing"
)

const (
	genesisScriptSig    = "04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73"
	genesisScriptPubKey = "4104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac"
	genesisTxidDisplay  = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	genesisTxidInternal = "3ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a51323a9fb8aa4b1e5e4a"
	genesisBlockHash    = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"
	genesisHeaderHex    = "0100000000000000000000000000000000000000000000000000000000000000000000003ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a51323a9fb8aa4b1e5e4a29ab5f49ffff001d1dac2b7c"
)

func genesisCoinbaseTx() *Tx {
	return &Tx{
		Version:  1,
		Locktime: 0,
		Vin: []TxInput{{
			Txid:       zeroTxidHex,
			Vout:       COINBASE_PREVOUT_VOUT,
			ScriptSig:  genesisScriptSig,
			Witness:    []string{},
			IsCoinbase: true,
			Sequence:   DEFAULT_SEQUENCE,
		}},
		Vout: []TxOutput{{
			ScriptPubKey:     genesisScriptPubKey,
			ScriptPubKeyAsm:  "OP_PUSHBYTES_65 04678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5f OP_CHECKSIG",
			ScriptPubKeyType: "p2pk",
			Value:            5_000_000_000,
		}},
	}
}

func genesisHeader() BlockHeader {
	return BlockHeader{
		Version:       1,
		PrevBlockHash: zeroTxidHex,
		MerkleRoot:    genesisTxidInternal,
		Time:          1231006505,
		Bits:          0x1d00ffff,
		Nonce:         2083236893,
	}
}

func mustHex32(t *testing.T, s string) [32]byte {
	t.Helper()
	b, err := decodeHex32(s, "test")
	if err != nil {
		t.Fatalf("bad hex32: %v", err)
	}
	return b
}

func mustTarget(t *testing.T, s string) *big.Int {
	t.Helper()
	v, err := ParseTarget(s)
	if err != nil {
		t.Fatalf("ParseTarget(%q): %v", s, err)
	}
	return v
}

func hexOf(b [32]byte) string {
	return hex.EncodeToString(b[:])
}
