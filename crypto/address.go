package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

// P2PKH_VERSION_MAINNET is the base58check version byte of "1..." addresses.
const P2PKH_VERSION_MAINNET byte = 0x00

// SEC1 serialization prefixes accepted for reward keys.
const (
	pubKeyCompressedEven byte = 0x02
	pubKeyCompressedOdd  byte = 0x03
	pubKeyUncompressed   byte = 0x04
)

// Hash160 is RIPEMD-160 over SHA-256, the public key hash of P2PKH scripts.
func Hash160(b []byte) [20]byte {
	sha := sha256.Sum256(b)
	rip := ripemd160.New()
	_, _ = rip.Write(sha[:])
	var out [20]byte
	copy(out[:], rip.Sum(nil))
	return out
}

// PubKeyToAddress derives the base58check P2PKH address of a serialized
// secp256k1 public key. The key is hashed in the serialization supplied, so
// compressed and uncompressed forms give different addresses. Hybrid (0x06,
// 0x07) serializations are rejected.
func PubKeyToAddress(pubKey []byte, version byte) (string, error) {
	if len(pubKey) == 0 {
		return "", errors.New("invalid public key: empty")
	}
	switch pubKey[0] {
	case pubKeyCompressedEven, pubKeyCompressedOdd, pubKeyUncompressed:
	default:
		return "", fmt.Errorf("invalid public key: unsupported prefix 0x%02x", pubKey[0])
	}
	if _, err := btcec.ParsePubKey(pubKey); err != nil {
		return "", fmt.Errorf("invalid public key: %w", err)
	}
	h := Hash160(pubKey)
	return base58.CheckEncode(h[:], version), nil
}

// DecodeP2PKHAddress returns the 20-byte hash and version byte of a
// base58check address.
func DecodeP2PKHAddress(addr string) ([20]byte, byte, error) {
	var out [20]byte
	if addr == "" {
		return out, 0, errors.New("empty address")
	}
	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return out, 0, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if len(payload) != len(out) {
		return out, 0, fmt.Errorf("decode address %q: payload is %d bytes, want 20", addr, len(payload))
	}
	copy(out[:], payload)
	return out, version, nil
}
