package consensus

import (
	"encoding/hex"
	"strings"
)

// ScriptKind is the closed set of locking-script shapes the standardness
// rule accepts. Anything else is SCRIPT_UNKNOWN.
type ScriptKind uint8

const (
	SCRIPT_UNKNOWN ScriptKind = iota
	SCRIPT_P2PKH
	SCRIPT_P2SH
)

func (k ScriptKind) String() string {
	switch k {
	case SCRIPT_P2PKH:
		return "p2pkh"
	case SCRIPT_P2SH:
		return "p2sh"
	default:
		return "unknown"
	}
}

const (
	OP_0              = "OP_0"
	OP_DUP            = "OP_DUP"
	OP_HASH160        = "OP_HASH160"
	OP_EQUAL          = "OP_EQUAL"
	OP_EQUALVERIFY    = "OP_EQUALVERIFY"
	OP_CHECKSIG       = "OP_CHECKSIG"
	OP_CHECKSIGVERIFY = "OP_CHECKSIGVERIFY"
	OP_PUSHBYTES_20   = "OP_PUSHBYTES_20"

	opPushBytesPrefix = "OP_PUSHBYTES_"
)

// scriptMatcher is one exact token shape. A "" entry matches a 20-byte hex
// push payload.
type scriptMatcher struct {
	kind   ScriptKind
	tokens []string
}

var standardLockingScripts = []scriptMatcher{
	{SCRIPT_P2PKH, []string{OP_DUP, OP_HASH160, OP_PUSHBYTES_20, "", OP_EQUALVERIFY, OP_CHECKSIG}},
	{SCRIPT_P2SH, []string{OP_HASH160, OP_PUSHBYTES_20, "", OP_EQUAL}},
}

func (m scriptMatcher) match(tokens []string) bool {
	if len(tokens) != len(m.tokens) {
		return false
	}
	for i, want := range m.tokens {
		if want == "" {
			if !isHash160Hex(tokens[i]) {
				return false
			}
			continue
		}
		if tokens[i] != want {
			return false
		}
	}
	return true
}

func isHash160Hex(s string) bool {
	if len(s) != 40 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// ClassifyLockingASM matches a scriptPubKey disassembly against the standard
// shapes token by token.
func ClassifyLockingASM(asm string) ScriptKind {
	tokens := strings.Fields(asm)
	for _, m := range standardLockingScripts {
		if m.match(tokens) {
			return m.kind
		}
	}
	return SCRIPT_UNKNOWN
}

// IsPushOnlyScriptSig approximates "scriptSig only pushes data": the
// disassembly is empty, starts with OP_0, or contains an OP_PUSHBYTES_n push.
func IsPushOnlyScriptSig(asm string) bool {
	tokens := strings.Fields(asm)
	if len(tokens) == 0 {
		return true
	}
	if tokens[0] == OP_0 {
		return true
	}
	for _, tok := range tokens {
		if strings.HasPrefix(tok, opPushBytesPrefix) {
			return true
		}
	}
	return false
}

// CountSigOps counts OP_CHECKSIG and OP_CHECKSIGVERIFY tokens.
func CountSigOps(asm string) int {
	n := 0
	for _, tok := range strings.Fields(asm) {
		if tok == OP_CHECKSIG || tok == OP_CHECKSIGVERIFY {
			n++
		}
	}
	return n
}

// P2PKHLockingScript returns the hex script and its disassembly for a
// 20-byte public key hash.
func P2PKHLockingScript(pubKeyHash [20]byte) (script string, asm string) {
	h := hex.EncodeToString(pubKeyHash[:])
	script = "76a914" + h + "88ac"
	asm = strings.Join([]string{OP_DUP, OP_HASH160, OP_PUSHBYTES_20, h, OP_EQUALVERIFY, OP_CHECKSIG}, " ")
	return script, asm
}
