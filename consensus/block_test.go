package consensus

import (
	"math/big"
	"testing"
)

func TestAssembleBlock_GenesisCoinbase(t *testing.T) {
	target := genesisTarget(t)
	block, err := AssembleBlock([]*Tx{genesisCoinbaseTx()}, zeroTxidHex, 1231006505, target, MERKLE_TXID_TREE)
	if err != nil {
		t.Fatalf("AssembleBlock: %v", err)
	}
	h := block.Header
	if h.Version != BLOCK_VERSION || h.Nonce != 0 || h.Bits != 0x1d00ffff {
		t.Fatalf("header=%+v", h)
	}
	if h.MerkleRoot != genesisTxidInternal {
		t.Fatalf("merkle=%s, want %s", h.MerkleRoot, genesisTxidInternal)
	}
	if h.PrevBlockHash != zeroTxidHex || h.Time != 1231006505 {
		t.Fatalf("header=%+v", h)
	}
	ids, err := block.TxIDHexes()
	if err != nil {
		t.Fatalf("TxIDHexes: %v", err)
	}
	if len(ids) != 1 || ids[0] != genesisTxidDisplay {
		t.Fatalf("ids=%v", ids)
	}
}

func TestAssembleBlock_EmptyList(t *testing.T) {
	block, err := AssembleBlock(nil, zeroTxidHex, 1, MAX_TARGET, MERKLE_TXID_TREE)
	if err != nil {
		t.Fatalf("AssembleBlock: %v", err)
	}
	if block.Header.MerkleRoot != hexOf(EMPTY_MERKLE_ROOT) {
		t.Fatalf("merkle=%s", block.Header.MerkleRoot)
	}
}

func TestAssembleBlock_Rejects(t *testing.T) {
	txs := []*Tx{genesisCoinbaseTx()}
	if _, err := AssembleBlock(txs, "abcd", 1, MAX_TARGET, MERKLE_TXID_TREE); ErrorCodeOf(err) != BLOCK_ERR_ENCODING {
		t.Fatalf("short prev: err=%v", err)
	}
	if _, err := AssembleBlock(txs, zeroTxidHex, 1, big.NewInt(0), MERKLE_TXID_TREE); ErrorCodeOf(err) != BLOCK_ERR_TARGET_INVALID {
		t.Fatalf("zero target: err=%v", err)
	}
	if _, err := AssembleBlock(txs, zeroTxidHex, 1, MAX_TARGET, "bogus"); ErrorCodeOf(err) != BLOCK_ERR_MERKLE_INVALID {
		t.Fatalf("bad convention: err=%v", err)
	}
}

func TestAssembleBlock_CopiesTxList(t *testing.T) {
	txs := []*Tx{genesisCoinbaseTx()}
	block, err := AssembleBlock(txs, zeroTxidHex, 1, MAX_TARGET, MERKLE_TXID_TREE)
	if err != nil {
		t.Fatalf("AssembleBlock: %v", err)
	}
	txs[0] = nil
	if block.Txs[0] == nil {
		t.Fatalf("block shares caller slice")
	}
}

func TestNewCoinbaseTx(t *testing.T) {
	var pkh [20]byte
	pkh[0] = 0x62
	cb := NewCoinbaseTx(50, pkh, "addr")
	if !cb.IsCoinbase() {
		t.Fatalf("not coinbase shaped")
	}
	if cb.Vin[0].Vout != COINBASE_PREVOUT_VOUT || cb.Vin[0].Sequence != DEFAULT_SEQUENCE {
		t.Fatalf("vin=%+v", cb.Vin[0])
	}
	if len(cb.Vout) != 1 || cb.Vout[0].Value != 50 || cb.Vout[0].ScriptPubKeyType != "p2pkh" {
		t.Fatalf("vout=%+v", cb.Vout)
	}
	if ClassifyLockingASM(cb.Vout[0].ScriptPubKeyAsm) != SCRIPT_P2PKH {
		t.Fatalf("reward output not p2pkh")
	}
	if _, err := cb.TxIDHex(); err != nil {
		t.Fatalf("TxIDHex: %v", err)
	}

	other, err := ParseTx([]byte(sampleTxJSON))
	if err != nil {
		t.Fatalf("ParseTx: %v", err)
	}
	all := WithCoinbase(cb, []*Tx{other})
	if len(all) != 2 || all[0] != cb || all[1] != other {
		t.Fatalf("WithCoinbase order wrong")
	}
}
