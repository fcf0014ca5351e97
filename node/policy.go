package node

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
)

// SpendIndex maps each "txid:vout" outpoint to the set of pool keys whose
// inputs declare it. It is built once over the whole pool before any single
// transaction is judged.
type SpendIndex map[string]map[string]struct{}

func BuildSpendIndex(parsed map[string]*consensus.Tx) SpendIndex {
	idx := make(SpendIndex)
	for key, tx := range parsed {
		if tx == nil {
			continue
		}
		for _, in := range tx.Vin {
			op := in.Outpoint()
			owners, ok := idx[op]
			if !ok {
				owners = make(map[string]struct{}, 1)
				idx[op] = owners
			}
			owners[key] = struct{}{}
		}
	}
	return idx
}

// SpentByOther reports whether any pool entry other than key spends outpoint.
func (idx SpendIndex) SpentByOther(key string, outpoint string) bool {
	for owner := range idx[outpoint] {
		if owner != key {
			return true
		}
	}
	return false
}

// CheckTx applies the policy predicates to one parsed transaction in their
// reporting order and returns the first failure. raw is the transaction text
// the size rules are measured on.
func CheckTx(key string, raw []byte, tx *consensus.Tx, index SpendIndex) error {
	if tx == nil {
		return txerr(consensus.TX_ERR_PARSE, "nil tx")
	}
	if len(tx.Vin) == 0 || len(tx.Vout) == 0 {
		return txerr(consensus.POLICY_ERR_EMPTY_IO, "vin and vout must be non-empty")
	}
	if len(raw) > consensus.MAX_BLOCK_SIZE {
		return txerrf(consensus.POLICY_ERR_TX_OVERSIZE, "size %d > %d", len(raw), consensus.MAX_BLOCK_SIZE)
	}

	totalOut, err := cappedSum(tx.Vout, func(o consensus.TxOutput) uint64 { return o.Value })
	if err != nil {
		return txerrf(consensus.POLICY_ERR_MONEY_RANGE, "outputs: %v", err)
	}
	totalIn, err := cappedSum(tx.Vin, func(in consensus.TxInput) uint64 { return in.Prevout.Value })
	if err != nil {
		return txerrf(consensus.POLICY_ERR_MONEY_RANGE, "inputs: %v", err)
	}

	for i, in := range tx.Vin {
		if in.IsCoinbase {
			return txerrf(consensus.POLICY_ERR_COINBASE_INPUT, "vin[%d] is flagged coinbase", i)
		}
	}

	if tx.Locktime > math.MaxInt32 {
		return txerrf(consensus.POLICY_ERR_LOCKTIME_RANGE, "locktime %d exceeds int32", tx.Locktime)
	}
	if len(raw) < consensus.MIN_TX_SIZE {
		return txerrf(consensus.POLICY_ERR_TX_UNDERSIZE, "size %d < %d", len(raw), consensus.MIN_TX_SIZE)
	}
	for i, in := range tx.Vin {
		if n := consensus.CountSigOps(in.ScriptSigAsm); n > consensus.MAX_SIGOPS_PER_INPUT {
			return txerrf(consensus.POLICY_ERR_SIGOPS, "vin[%d] sigops=%d", i, n)
		}
	}

	for i, in := range tx.Vin {
		if !consensus.IsPushOnlyScriptSig(in.ScriptSigAsm) {
			return txerrf(consensus.POLICY_ERR_NONSTANDARD_SCRIPTSIG, "vin[%d]", i)
		}
	}
	for i, out := range tx.Vout {
		if consensus.ClassifyLockingASM(out.ScriptPubKeyAsm) == consensus.SCRIPT_UNKNOWN {
			return txerrf(consensus.POLICY_ERR_NONSTANDARD_SCRIPTPUBKEY, "vout[%d]", i)
		}
	}

	var fee uint64
	if totalIn > totalOut {
		fee = totalIn - totalOut
	}
	if fee < consensus.MIN_TX_FEE {
		return txerrf(consensus.POLICY_ERR_FEE_TOO_LOW, "fee=%d", fee)
	}

	for i, in := range tx.Vin {
		if op := in.Outpoint(); index.SpentByOther(key, op) {
			return txerrf(consensus.POLICY_ERR_CONFLICT, "vin[%d] spends %s declared by another pool entry", i, op)
		}
	}

	if totalIn < totalOut {
		return txerrf(consensus.POLICY_ERR_VALUE_CONSERVATION, "inputs %d < outputs %d", totalIn, totalOut)
	}
	return nil
}

// cappedSum adds values left to right and fails as soon as a partial sum
// reaches TOTAL_MONEY_CAP.
func cappedSum[T any](items []T, value func(T) uint64) (uint64, error) {
	var sum uint64
	for i, it := range items {
		v := value(it)
		if v >= consensus.TOTAL_MONEY_CAP || sum >= consensus.TOTAL_MONEY_CAP-v {
			return 0, fmt.Errorf("partial sum at [%d] reaches cap %d", i, consensus.TOTAL_MONEY_CAP)
		}
		sum += v
	}
	return sum, nil
}

type PoolTx struct {
	Key string
	Raw []byte
	Tx  *consensus.Tx
}

type Rejection struct {
	Key string
	Err error
}

func (r Rejection) Code() consensus.ErrorCode {
	return consensus.ErrorCodeOf(r.Err)
}

// PoolResult is the outcome of one validation pass. Accepted and Rejected are
// both in ascending key order.
type PoolResult struct {
	Accepted []PoolTx
	Rejected []Rejection
	Counts   map[consensus.ErrorCode]int
}

// Txs returns the accepted transactions in order.
func (r *PoolResult) Txs() []*consensus.Tx {
	out := make([]*consensus.Tx, 0, len(r.Accepted))
	for _, p := range r.Accepted {
		out = append(out, p.Tx)
	}
	return out
}

// ValidatePool returns the subset of pool that parses and passes every
// policy rule, with no logging or metrics.
func ValidatePool(pool map[string][]byte) *PoolResult {
	return NewValidator(ValidatorConfig{}).Validate(pool)
}

func sortedKeys(pool map[string][]byte) []string {
	keys := make([]string, 0, len(pool))
	for k := range pool {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func logRejection(logger *slog.Logger, r Rejection) {
	logger.Debug("transaction excluded", "key", r.Key, "code", string(r.Code()), "error", r.Err)
}

func sortRejections(rs []Rejection) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Key < rs[j].Key })
}
