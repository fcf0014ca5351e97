package crypto

import (
	"encoding/hex"
	"testing"
)

const genesisPubKey = "04678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5f"

func TestHash160_GenesisKey(t *testing.T) {
	pub, _ := hex.DecodeString(genesisPubKey)
	h := Hash160(pub)
	if got := hex.EncodeToString(h[:]); got != "62e907b15cbf27d5425399ebf6f0fb50ebb88f18" {
		t.Fatalf("hash160=%s", got)
	}
}

func TestPubKeyToAddress_Genesis(t *testing.T) {
	pub, _ := hex.DecodeString(genesisPubKey)
	addr, err := PubKeyToAddress(pub, P2PKH_VERSION_MAINNET)
	if err != nil {
		t.Fatalf("PubKeyToAddress: %v", err)
	}
	if addr != "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa" {
		t.Fatalf("addr=%s", addr)
	}
}

func TestPubKeyToAddress_RejectsGarbage(t *testing.T) {
	if _, err := PubKeyToAddress([]byte{0x02, 0x01}, P2PKH_VERSION_MAINNET); err == nil {
		t.Fatalf("expected error for short key")
	}
	if _, err := PubKeyToAddress(nil, P2PKH_VERSION_MAINNET); err == nil {
		t.Fatalf("expected error for empty key")
	}
	for _, prefix := range []byte{0x00, 0x05, 0x06, 0x07} {
		bad, _ := hex.DecodeString(genesisPubKey)
		bad[0] = prefix
		if _, err := PubKeyToAddress(bad, P2PKH_VERSION_MAINNET); err == nil {
			t.Fatalf("expected error for prefix 0x%02x", prefix)
		}
	}
}

func TestDecodeP2PKHAddress(t *testing.T) {
	h, version, err := DecodeP2PKHAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
	if err != nil {
		t.Fatalf("DecodeP2PKHAddress: %v", err)
	}
	if version != P2PKH_VERSION_MAINNET {
		t.Fatalf("version=%d", version)
	}
	if got := hex.EncodeToString(h[:]); got != "62e907b15cbf27d5425399ebf6f0fb50ebb88f18" {
		t.Fatalf("hash=%s", got)
	}

	for _, addr := range []string{"", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb", "0OIl"} {
		if _, _, err := DecodeP2PKHAddress(addr); err == nil {
			t.Fatalf("expected error for %q", addr)
		}
	}
}
