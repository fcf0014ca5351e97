package consensus

// TOTAL_MONEY_CAP bounds every running sum of input or output values.
const TOTAL_MONEY_CAP uint64 = 21_000_000 * 100_000_000

const MIN_TX_FEE uint64 = 1

const (
	// MAX_BLOCK_SIZE is applied per transaction to the raw JSON text length.
	MAX_BLOCK_SIZE = 1_000_000
	MIN_TX_SIZE    = 100

	MAX_SIGOPS_PER_INPUT = 2

	BLOCK_HEADER_BYTES = 80
	BLOCK_VERSION      = 4
)

const COINBASE_PREVOUT_VOUT = ^uint32(0)

// DEFAULT_SEQUENCE is the final sequence; only its low 32 bits reach the
// wire form.
const DEFAULT_SEQUENCE uint64 = 0xffffffff
