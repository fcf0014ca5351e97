package consensus

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
)

func genesisTarget(t *testing.T) *big.Int {
	t.Helper()
	target, err := DecompressTarget(0x1d00ffff)
	if err != nil {
		t.Fatalf("DecompressTarget: %v", err)
	}
	return target
}

func TestPowCheck_Genesis(t *testing.T) {
	b, err := genesisHeader().Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := PowCheck(b, genesisTarget(t)); err != nil {
		t.Fatalf("genesis pow rejected: %v", err)
	}
}

func TestPowCheck_StrictLess(t *testing.T) {
	b, err := genesisHeader().Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	h, err := BlockHash(b)
	if err != nil {
		t.Fatalf("BlockHash: %v", err)
	}
	hashInt := new(big.Int).SetBytes(h[:])

	// target == hash => invalid (strictly less required)
	if err := PowCheck(b, hashInt); ErrorCodeOf(err) != BLOCK_ERR_POW_INVALID {
		t.Fatalf("expected pow invalid for target == hash, got %v", err)
	}
	if err := PowCheck(b, new(big.Int).Add(hashInt, big.NewInt(1))); err != nil {
		t.Fatalf("expected pow valid for target = hash+1, got err=%v", err)
	}
}

func TestSearchNonce_MaxTargetFirstAttempt(t *testing.T) {
	h := genesisHeader()
	h.Nonce = 0
	res, err := SearchNonce(context.Background(), h, MAX_TARGET, SearchOptions{})
	if err != nil {
		t.Fatalf("SearchNonce: %v", err)
	}
	if res.Header.Nonce != 0 || res.Attempts != 1 {
		t.Fatalf("nonce=%d attempts=%d, want 0 and 1", res.Header.Nonce, res.Attempts)
	}
	if res.Header.Time != h.Time {
		t.Fatalf("time changed: %d", res.Header.Time)
	}
}

func TestSearchNonce_FindsGenesisNonce(t *testing.T) {
	h := genesisHeader()
	var counter atomic.Uint64
	res, err := SearchNonce(context.Background(), h, genesisTarget(t), SearchOptions{
		Start:    h.Nonce - 5,
		Stride:   1,
		Attempts: &counter,
	})
	if err != nil {
		t.Fatalf("SearchNonce: %v", err)
	}
	if res.Header.Nonce != 2083236893 {
		t.Fatalf("nonce=%d, want 2083236893", res.Header.Nonce)
	}
	if hexOf(res.Hash) != genesisBlockHash {
		t.Fatalf("hash=%x", res.Hash)
	}
	if res.Attempts != 6 || counter.Load() != 6 {
		t.Fatalf("attempts=%d counter=%d, want 6", res.Attempts, counter.Load())
	}
}

func TestSearchNonce_Stride(t *testing.T) {
	h := genesisHeader()
	res, err := SearchNonce(context.Background(), h, genesisTarget(t), SearchOptions{
		Start:  h.Nonce - 8,
		Stride: 2,
	})
	if err != nil {
		t.Fatalf("SearchNonce: %v", err)
	}
	if res.Header.Nonce != h.Nonce || res.Attempts != 5 {
		t.Fatalf("nonce=%d attempts=%d", res.Header.Nonce, res.Attempts)
	}
}

func TestSearchNonce_WrapBumpsTime(t *testing.T) {
	h := genesisHeader()
	h.Time--
	// start, start+2^31, then the sequence wraps: time+1 and back to start.
	res, err := SearchNonce(context.Background(), h, genesisTarget(t), SearchOptions{
		Start:  2083236893,
		Stride: 1 << 31,
	})
	if err != nil {
		t.Fatalf("SearchNonce: %v", err)
	}
	if res.Header.Time != 1231006505 || res.Header.Nonce != 2083236893 {
		t.Fatalf("time=%d nonce=%d", res.Header.Time, res.Header.Nonce)
	}
	if res.Attempts != 3 {
		t.Fatalf("attempts=%d, want 3", res.Attempts)
	}
}

func TestSearchNonce_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SearchNonce(ctx, genesisHeader(), big.NewInt(1), SearchOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

func TestSearchNonce_RejectsBadInput(t *testing.T) {
	if _, err := SearchNonce(context.Background(), genesisHeader(), big.NewInt(0), SearchOptions{}); ErrorCodeOf(err) != BLOCK_ERR_TARGET_INVALID {
		t.Fatalf("zero target: err=%v", err)
	}
	h := genesisHeader()
	h.MerkleRoot = "nothex"
	if _, err := SearchNonce(context.Background(), h, MAX_TARGET, SearchOptions{}); ErrorCodeOf(err) != BLOCK_ERR_ENCODING {
		t.Fatalf("bad header: err=%v", err)
	}
}

func TestMine_SingleWorker(t *testing.T) {
	block, err := AssembleBlock([]*Tx{genesisCoinbaseTx()}, zeroTxidHex, 1231006505, MAX_TARGET, MERKLE_TXID_TREE)
	if err != nil {
		t.Fatalf("AssembleBlock: %v", err)
	}
	mined, err := Mine(context.Background(), block, MAX_TARGET)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if mined.Header.Nonce != 0 {
		t.Fatalf("nonce=%d, want 0", mined.Header.Nonce)
	}
	b, err := mined.Header.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := PowCheck(b, MAX_TARGET); err != nil {
		t.Fatalf("mined header fails pow: %v", err)
	}
}
