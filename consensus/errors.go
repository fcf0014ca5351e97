package consensus

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	TX_ERR_PARSE ErrorCode = "TX_ERR_PARSE"

	POLICY_ERR_EMPTY_IO                 ErrorCode = "POLICY_ERR_EMPTY_IO"
	POLICY_ERR_TX_OVERSIZE              ErrorCode = "POLICY_ERR_TX_OVERSIZE"
	POLICY_ERR_MONEY_RANGE              ErrorCode = "POLICY_ERR_MONEY_RANGE"
	POLICY_ERR_COINBASE_INPUT           ErrorCode = "POLICY_ERR_COINBASE_INPUT"
	POLICY_ERR_LOCKTIME_RANGE           ErrorCode = "POLICY_ERR_LOCKTIME_RANGE"
	POLICY_ERR_TX_UNDERSIZE             ErrorCode = "POLICY_ERR_TX_UNDERSIZE"
	POLICY_ERR_SIGOPS                   ErrorCode = "POLICY_ERR_SIGOPS"
	POLICY_ERR_NONSTANDARD_SCRIPTSIG    ErrorCode = "POLICY_ERR_NONSTANDARD_SCRIPTSIG"
	POLICY_ERR_NONSTANDARD_SCRIPTPUBKEY ErrorCode = "POLICY_ERR_NONSTANDARD_SCRIPTPUBKEY"
	POLICY_ERR_FEE_TOO_LOW              ErrorCode = "POLICY_ERR_FEE_TOO_LOW"
	POLICY_ERR_CONFLICT                 ErrorCode = "POLICY_ERR_CONFLICT"
	POLICY_ERR_VALUE_CONSERVATION       ErrorCode = "POLICY_ERR_VALUE_CONSERVATION"

	BLOCK_ERR_ENCODING       ErrorCode = "BLOCK_ERR_ENCODING"
	BLOCK_ERR_TARGET_INVALID ErrorCode = "BLOCK_ERR_TARGET_INVALID"
	BLOCK_ERR_POW_INVALID    ErrorCode = "BLOCK_ERR_POW_INVALID"
	BLOCK_ERR_MERKLE_INVALID ErrorCode = "BLOCK_ERR_MERKLE_INVALID"
)

type TxError struct {
	Code ErrorCode
	Msg  string
}

func (e *TxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func txerr(code ErrorCode, msg string) error {
	return &TxError{Code: code, Msg: msg}
}

func txerrf(code ErrorCode, format string, args ...any) error {
	return &TxError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ErrorCodeOf returns the code carried by err, or "" when err is not a *TxError.
func ErrorCodeOf(err error) ErrorCode {
	var te *TxError
	if errors.As(err, &te) && te != nil {
		return te.Code
	}
	return ""
}

// IsParseFailure reports whether err rejects a transaction as malformed text
// rather than as a well-formed transaction that fails a policy rule.
func IsParseFailure(err error) bool {
	return ErrorCodeOf(err) == TX_ERR_PARSE
}
