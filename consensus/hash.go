package consensus

import "crypto/sha256"

func Sha256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// DoubleSha256 is the digest used for txids, merkle nodes and header hashes.
func DoubleSha256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

func reverse32(in [32]byte) [32]byte {
	var out [32]byte
	for i := range in {
		out[i] = in[31-i]
	}
	return out
}
