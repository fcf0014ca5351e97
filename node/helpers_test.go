package node

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
	"github.com/stretchr/testify/require"
)

const (
	testPKH    = "6085312a9c500ff9cc35b571b0a1e5efb7fb9f16"
	testP2PKH  = "OP_DUP OP_HASH160 OP_PUSHBYTES_20 " + testPKH + " OP_EQUALVERIFY OP_CHECKSIG"
	testScript = "76a914" + testPKH + "88ac"
)

// prevTxid returns a distinct 32-byte txid for index n.
func prevTxid(n int) string {
	return fmt.Sprintf("%064x", n+1)
}

func testTx(prev string, vout uint32, in uint64, out uint64) *consensus.Tx {
	return &consensus.Tx{
		Version:  2,
		Locktime: 0,
		Vin: []consensus.TxInput{{
			Txid: prev,
			Vout: vout,
			Prevout: consensus.TxOutput{
				ScriptPubKey:     testScript,
				ScriptPubKeyAsm:  testP2PKH,
				ScriptPubKeyType: "p2pkh",
				Value:            in,
			},
			ScriptSig:    "",
			ScriptSigAsm: "",
			Witness:      []string{"3044", "02ab"},
			IsCoinbase:   false,
			Sequence:     0xfffffffd,
		}},
		Vout: []consensus.TxOutput{{
			ScriptPubKey:     testScript,
			ScriptPubKeyAsm:  testP2PKH,
			ScriptPubKeyType: "p2pkh",
			Value:            out,
		}},
	}
}

func encodeTx(t *testing.T, tx *consensus.Tx) []byte {
	t.Helper()
	raw, err := json.MarshalIndent(tx, "", "  ")
	require.NoError(t, err)
	return raw
}

func parseTx(t *testing.T, raw []byte) *consensus.Tx {
	t.Helper()
	tx, err := consensus.ParseTx(raw)
	require.NoError(t, err)
	return tx
}

// e2ePool is three valid transactions, a pair spending the same outpoint
// and one malformed entry.
func e2ePool(t *testing.T) map[string][]byte {
	t.Helper()
	pool := map[string][]byte{
		"a": encodeTx(t, testTx(prevTxid(1), 0, 10_000, 9_000)),
		"b": encodeTx(t, testTx(prevTxid(2), 1, 20_000, 19_500)),
		"c": encodeTx(t, testTx(prevTxid(3), 0, 5_000, 4_999)),
		"d": encodeTx(t, testTx(prevTxid(9), 3, 7_000, 6_000)),
		"e": encodeTx(t, testTx(prevTxid(9), 3, 8_000, 6_500)),
		"f": []byte(`{"version": 1, "vin": [`),
	}
	return pool
}

func hasLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}

func hexBytes(b []byte) string {
	return hex.EncodeToString(b)
}
