package consensus

import (
	"encoding/hex"
	"math/big"
	"strings"
)

var (
	mask32      = new(big.Int).SetUint64(0xffffffff)
	two256      = new(big.Int).Lsh(big.NewInt(1), 256)
	MAX_TARGET  = new(big.Int).Sub(new(big.Int).Set(two256), big.NewInt(1))
	compactSign = uint32(0x00800000)
)

func low32(x *big.Int) uint32 {
	return uint32(new(big.Int).And(x, mask32).Uint64())
}

// CompressTarget encodes a 256-bit target in compact ("nBits") form: one
// size byte followed by a 24-bit coefficient whose top bit is never set.
func CompressTarget(target *big.Int) uint32 {
	if target == nil || target.Sign() <= 0 {
		return 0
	}
	size := uint((target.BitLen() + 7) / 8)
	var compact uint32
	if size <= 3 {
		compact = low32(target) << (8 * (3 - size))
	} else {
		compact = low32(new(big.Int).Rsh(target, 8*(size-3)))
	}
	if compact&compactSign != 0 {
		compact >>= 8
		size++
	}
	return uint32(size)<<24 | compact&0x00ffffff
}

// DecompressTarget expands compact bits back to a full-width target. Bits
// with the sign flag set, or encoding more than 256 bits, are rejected.
func DecompressTarget(bits uint32) (*big.Int, error) {
	size := uint(bits >> 24)
	word := bits & 0x007fffff
	if word != 0 && bits&compactSign != 0 {
		return nil, txerrf(BLOCK_ERR_TARGET_INVALID, "compact %08x is negative", bits)
	}
	t := new(big.Int)
	if size <= 3 {
		t.SetUint64(uint64(word >> (8 * (3 - size))))
	} else {
		t.SetUint64(uint64(word))
		t.Lsh(t, 8*(size-3))
	}
	if t.BitLen() > 256 {
		return nil, txerrf(BLOCK_ERR_TARGET_INVALID, "compact %08x overflows 256 bits", bits)
	}
	return t, nil
}

// ValidateTarget requires 0 < target < 2^256.
func ValidateTarget(target *big.Int) error {
	if target == nil || target.Sign() <= 0 {
		return txerr(BLOCK_ERR_TARGET_INVALID, "target must be > 0")
	}
	if target.Cmp(two256) >= 0 {
		return txerr(BLOCK_ERR_TARGET_INVALID, "target must be < 2^256")
	}
	return nil
}

// ParseTarget reads a big-endian hex target (with or without 0x).
func ParseTarget(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return nil, txerr(BLOCK_ERR_TARGET_INVALID, "empty target")
	}
	if len(s) > 64 {
		return nil, txerrf(BLOCK_ERR_TARGET_INVALID, "target has %d hex digits, max 64", len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, txerrf(BLOCK_ERR_TARGET_INVALID, "target: %v", err)
	}
	t := new(big.Int).SetBytes(b)
	if err := ValidateTarget(t); err != nil {
		return nil, err
	}
	return t, nil
}

// TargetBytes returns target as 32 big-endian bytes. target must be valid.
func TargetBytes(target *big.Int) [32]byte {
	var out [32]byte
	target.FillBytes(out[:])
	return out
}
