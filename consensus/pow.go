package consensus

import (
	"bytes"
	"context"
	"encoding/binary"
	"math/big"
	"sync/atomic"
)

const ctxPollInterval = 1 << 12

type SearchOptions struct {
	// Start is the first nonce tried; Stride the step between attempts.
	// Workers partition the nonce space with Start=i, Stride=N.
	Start  uint32
	Stride uint32

	// Attempts, when set, is bumped as hashes are tried so callers can
	// report progress across workers.
	Attempts *atomic.Uint64
}

type SearchResult struct {
	Header   BlockHeader
	Hash     [32]byte
	Attempts uint64
}

// PowCheck requires the header hash to be strictly below target.
func PowCheck(headerBytes []byte, target *big.Int) error {
	if err := ValidateTarget(target); err != nil {
		return err
	}
	h, err := BlockHash(headerBytes)
	if err != nil {
		return err
	}
	if new(big.Int).SetBytes(h[:]).Cmp(target) >= 0 {
		return txerr(BLOCK_ERR_POW_INVALID, "hash not below target")
	}
	return nil
}

// SearchNonce hashes header variants until one is strictly below target.
// Only Nonce changes between attempts; when the worker's nonce sequence would
// wrap past 2^32-1, Time is bumped by one second and the sequence restarts.
// The search ends only on success or when ctx is done.
func SearchNonce(ctx context.Context, header BlockHeader, target *big.Int, opts SearchOptions) (*SearchResult, error) {
	if err := ValidateTarget(target); err != nil {
		return nil, err
	}
	buf, err := header.Bytes()
	if err != nil {
		return nil, err
	}
	targetBE := TargetBytes(target)
	stride := opts.Stride
	if stride == 0 {
		stride = 1
	}

	var attempts, unreported uint64
	flush := func() {
		if opts.Attempts != nil && unreported > 0 {
			opts.Attempts.Add(unreported)
		}
		unreported = 0
	}

	nonce := opts.Start
	timeField := header.Time
	for {
		binary.LittleEndian.PutUint32(buf[76:80], nonce)
		hash := reverse32(DoubleSha256(buf))
		attempts++
		unreported++
		if bytes.Compare(hash[:], targetBE[:]) < 0 {
			flush()
			header.Nonce = nonce
			header.Time = timeField
			return &SearchResult{Header: header, Hash: hash, Attempts: attempts}, nil
		}

		if attempts%ctxPollInterval == 0 {
			flush()
			if ctx != nil {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
				}
			}
		}

		next := nonce + stride
		if next < nonce {
			timeField++
			binary.LittleEndian.PutUint32(buf[68:72], timeField)
			next = opts.Start
		}
		nonce = next
	}
}

// Mine runs a single-worker search from nonce 0 and stores the winning
// header in block.
func Mine(ctx context.Context, block *Block, target *big.Int) (*Block, error) {
	if block == nil {
		return nil, txerr(BLOCK_ERR_ENCODING, "nil block")
	}
	res, err := SearchNonce(ctx, block.Header, target, SearchOptions{Start: 0, Stride: 1})
	if err != nil {
		return nil, err
	}
	block.Header = res.Header
	return block, nil
}
