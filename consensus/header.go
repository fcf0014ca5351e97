package consensus

import (
	"encoding/binary"
	"encoding/hex"
)

// BlockHeader holds the previous-block and merkle commitments as hex. Both
// are copied into the serialized header byte-for-byte.
type BlockHeader struct {
	Version       uint32 `json:"version"`
	PrevBlockHash string `json:"previous_block_hash"`
	MerkleRoot    string `json:"merkle_root"`
	Time          uint32 `json:"time"`
	Bits          uint32 `json:"bits"`
	Nonce         uint32 `json:"nonce"`
}

// Bytes serializes the 80-byte header: version, prev hash, merkle root,
// time, bits, nonce; integers little-endian.
func (h BlockHeader) Bytes() ([]byte, error) {
	prev, err := decodeHex32(h.PrevBlockHash, "previous_block_hash")
	if err != nil {
		return nil, txerr(BLOCK_ERR_ENCODING, err.Error())
	}
	merkle, err := decodeHex32(h.MerkleRoot, "merkle_root")
	if err != nil {
		return nil, txerr(BLOCK_ERR_ENCODING, err.Error())
	}

	out := make([]byte, 0, BLOCK_HEADER_BYTES)
	out = binary.LittleEndian.AppendUint32(out, h.Version)
	out = append(out, prev[:]...)
	out = append(out, merkle[:]...)
	out = binary.LittleEndian.AppendUint32(out, h.Time)
	out = binary.LittleEndian.AppendUint32(out, h.Bits)
	out = binary.LittleEndian.AppendUint32(out, h.Nonce)
	return out, nil
}

func (h BlockHeader) Hex() (string, error) {
	b, err := h.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Hash returns the double SHA-256 of the header reversed into big-endian
// order, the form compared against the target and shown as the block hash.
func (h BlockHeader) Hash() ([32]byte, error) {
	b, err := h.Bytes()
	if err != nil {
		return [32]byte{}, err
	}
	return BlockHash(b)
}

// BlockHash hashes raw 80-byte header bytes (see BlockHeader.Hash).
func BlockHash(headerBytes []byte) ([32]byte, error) {
	if len(headerBytes) != BLOCK_HEADER_BYTES {
		return [32]byte{}, txerr(BLOCK_ERR_ENCODING, "block hash: invalid header length")
	}
	return reverse32(DoubleSha256(headerBytes)), nil
}

func ParseBlockHeaderBytes(b []byte) (BlockHeader, error) {
	var h BlockHeader
	if len(b) != BLOCK_HEADER_BYTES {
		return h, txerr(BLOCK_ERR_ENCODING, "block header length mismatch")
	}
	h.Version = binary.LittleEndian.Uint32(b[0:4])
	h.PrevBlockHash = hex.EncodeToString(b[4:36])
	h.MerkleRoot = hex.EncodeToString(b[36:68])
	h.Time = binary.LittleEndian.Uint32(b[68:72])
	h.Bits = binary.LittleEndian.Uint32(b[72:76])
	h.Nonce = binary.LittleEndian.Uint32(b[76:80])
	return h, nil
}
