package consensus

import (
	"encoding/hex"
	"testing"
)

func TestTxID_GenesisCoinbase(t *testing.T) {
	tx := genesisCoinbaseTx()
	display, err := tx.TxIDHex()
	if err != nil {
		t.Fatalf("TxIDHex: %v", err)
	}
	if display != genesisTxidDisplay {
		t.Fatalf("display txid=%s, want %s", display, genesisTxidDisplay)
	}
	internal, err := tx.TxID()
	if err != nil {
		t.Fatalf("TxID: %v", err)
	}
	if hexOf(internal) != genesisTxidInternal {
		t.Fatalf("internal txid=%x, want %s", internal, genesisTxidInternal)
	}
}

func TestTxID_EmptyCoinbaseTxidSerializesAsZero(t *testing.T) {
	a := genesisCoinbaseTx()
	b := genesisCoinbaseTx()
	b.Vin[0].Txid = ""
	ida, err := a.TxID()
	if err != nil {
		t.Fatalf("TxID: %v", err)
	}
	idb, err := b.TxID()
	if err != nil {
		t.Fatalf("TxID: %v", err)
	}
	if ida != idb {
		t.Fatalf("empty txid should serialize as 32 zero bytes")
	}
}

func TestTxID_IgnoresWitness(t *testing.T) {
	tx, err := ParseTx([]byte(sampleTxJSON))
	if err != nil {
		t.Fatalf("ParseTx: %v", err)
	}
	before, err := tx.TxID()
	if err != nil {
		t.Fatalf("TxID: %v", err)
	}
	tx.Vin[0].Witness = append(tx.Vin[0].Witness, "deadbeef")
	after, err := tx.TxID()
	if err != nil {
		t.Fatalf("TxID: %v", err)
	}
	if before != after {
		t.Fatalf("witness changed txid")
	}

	tx.Vin[0].Sequence--
	changed, err := tx.TxID()
	if err != nil {
		t.Fatalf("TxID: %v", err)
	}
	if changed == before {
		t.Fatalf("sequence must be committed to by the txid")
	}
}

func TestTxID_WireLayout(t *testing.T) {
	tx, err := ParseTx([]byte(sampleTxJSON))
	if err != nil {
		t.Fatalf("ParseTx: %v", err)
	}
	wt, err := tx.WireTx()
	if err != nil {
		t.Fatalf("WireTx: %v", err)
	}
	raw := hex.EncodeToString(wt.Bytes())
	// version 2, one input, prev txid reversed onto the wire.
	wantPrefix := "02000000" + "01" + "25c9f7c56ab4b9c358cb159175de542b41c7d38bf862a045fa5da51979e37ffb" + "01000000" + "00" + "fdffffff"
	if len(raw) < len(wantPrefix) || raw[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("wire prefix=%s", raw)
	}
	wantSuffix := "01" + "905f010000000000" + "17" + "a914a1c1ef2bb3b5ae1bd4fb0b22a3f3e7d8f0a4e8b187" + "00000000"
	if raw[len(wantPrefix):] != wantSuffix {
		t.Fatalf("wire outputs=%s, want %s", raw[len(wantPrefix):], wantSuffix)
	}
}

func TestTxIDs_Order(t *testing.T) {
	a := genesisCoinbaseTx()
	b, err := ParseTx([]byte(sampleTxJSON))
	if err != nil {
		t.Fatalf("ParseTx: %v", err)
	}
	ids, err := TxIDs([]*Tx{a, b})
	if err != nil {
		t.Fatalf("TxIDs: %v", err)
	}
	if len(ids) != 2 || hexOf(ids[0]) != genesisTxidInternal {
		t.Fatalf("ids=%x", ids)
	}
}
