package consensus

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// addUint64 returns the sum of a and b or an error if the addition would overflow uint64.
func addUint64(a, b uint64) (uint64, error) {
	if b > (^uint64(0) - a) {
		return 0, fmt.Errorf("uint64 overflow")
	}
	return a + b, nil
}

func u32String(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

// decodeHex32 decodes a 64-character hex string into 32 bytes without any
// byte-order change.
func decodeHex32(s string, name string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("%s: got %d bytes, want 32", name, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// ParseHex32 decodes 64 hex digits into 32 bytes as written.
func ParseHex32(s string) ([32]byte, error) {
	return decodeHex32(s, "hex32")
}
