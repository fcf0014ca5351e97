package node

import (
	"fmt"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
)

func txerr(code consensus.ErrorCode, msg string) error {
	return &consensus.TxError{Code: code, Msg: msg}
}

func txerrf(code consensus.ErrorCode, format string, args ...any) error {
	return &consensus.TxError{Code: code, Msg: fmt.Sprintf(format, args...)}
}
