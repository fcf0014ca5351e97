package node

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"strings"
	"time"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/crypto"
)

const (
	DEFAULT_TARGET_HEX     = "0000ffff00000000000000000000000000000000000000000000000000000000"
	DEFAULT_REWARD_ADDRESS = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	DEFAULT_REWARD_AMOUNT  = 50

	MaxWorkers = 1024
)

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

type Config struct {
	PreviousBlockRef string        `mapstructure:"previous_block_ref" json:"previous_block_ref"`
	TargetDifficulty string        `mapstructure:"target_difficulty" json:"target_difficulty"`
	BlockTime        uint32        `mapstructure:"block_time" json:"block_time"`
	RewardAmount     uint64        `mapstructure:"reward_amount" json:"reward_amount"`
	RewardAddress    string        `mapstructure:"reward_address" json:"reward_address"`
	MerkleConvention string        `mapstructure:"merkle_convention" json:"merkle_convention"`
	PoolDir          string        `mapstructure:"pool_dir" json:"pool_dir"`
	PoolDB           string        `mapstructure:"pool_db" json:"pool_db"`
	OutputPath       string        `mapstructure:"output_path" json:"output_path"`
	ArchivePath      string        `mapstructure:"archive_path" json:"archive_path"`
	Workers          int           `mapstructure:"workers" json:"workers"`
	ReportInterval   time.Duration `mapstructure:"report_interval" json:"report_interval"`
	LogLevel         string        `mapstructure:"log_level" json:"log_level"`
	MetricsAddr      string        `mapstructure:"metrics_addr" json:"metrics_addr"`
	Progress         bool          `mapstructure:"progress" json:"progress"`
}

func DefaultConfig() Config {
	return Config{
		PreviousBlockRef: strings.Repeat("0", 64),
		TargetDifficulty: DEFAULT_TARGET_HEX,
		BlockTime:        0,
		RewardAmount:     DEFAULT_REWARD_AMOUNT,
		RewardAddress:    DEFAULT_REWARD_ADDRESS,
		MerkleConvention: string(consensus.MERKLE_TXID_TREE),
		PoolDir:          "mempool",
		OutputPath:       "output.txt",
		Workers:          1,
		ReportInterval:   10 * time.Second,
		LogLevel:         "info",
	}
}

func ValidateConfig(cfg Config) error {
	if _, err := consensus.ParseHex32(cfg.PreviousBlockRef); err != nil {
		return fmt.Errorf("invalid previous_block_ref: %w", err)
	}
	if _, err := consensus.ParseTarget(cfg.TargetDifficulty); err != nil {
		return fmt.Errorf("invalid target_difficulty: %w", err)
	}
	if _, err := consensus.ParseMerkleConvention(cfg.MerkleConvention); err != nil {
		return fmt.Errorf("invalid merkle_convention: %w", err)
	}
	if _, _, err := crypto.DecodeP2PKHAddress(cfg.RewardAddress); err != nil {
		return fmt.Errorf("invalid reward_address: %w", err)
	}
	if cfg.RewardAmount >= consensus.TOTAL_MONEY_CAP {
		return errors.New("reward_amount must be below the money cap")
	}
	if strings.TrimSpace(cfg.PoolDir) == "" && strings.TrimSpace(cfg.PoolDB) == "" {
		return errors.New("pool_dir or pool_db is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("output_path is required")
	}
	if cfg.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	if cfg.Workers > MaxWorkers {
		return fmt.Errorf("workers must be <= %d", MaxWorkers)
	}
	if cfg.ReportInterval < 0 {
		return errors.New("report_interval must be >= 0")
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if cfg.MetricsAddr != "" {
		if err := validateAddr(cfg.MetricsAddr); err != nil {
			return fmt.Errorf("invalid metrics_addr: %w", err)
		}
	}
	return nil
}

// BlockParams are the header and reward inputs resolved from a Config.
type BlockParams struct {
	PrevBlockRef string
	Target       *big.Int
	Time         uint32
	Reward       uint64
	PubKeyHash   [20]byte
	Address      string
	Convention   consensus.MerkleConvention
}

// ResolveBlockParams validates cfg and fills in the block time from now
// (unix seconds) when the config leaves it at zero.
func ResolveBlockParams(cfg Config, now int64) (*BlockParams, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	target, err := consensus.ParseTarget(cfg.TargetDifficulty)
	if err != nil {
		return nil, err
	}
	convention, err := consensus.ParseMerkleConvention(cfg.MerkleConvention)
	if err != nil {
		return nil, err
	}
	pkh, _, err := crypto.DecodeP2PKHAddress(cfg.RewardAddress)
	if err != nil {
		return nil, err
	}

	blockTime := cfg.BlockTime
	if blockTime == 0 {
		switch {
		case now <= 0:
			blockTime = 1
		case now > math.MaxUint32:
			return nil, fmt.Errorf("current time %d does not fit the header time field", now)
		default:
			blockTime = uint32(now)
		}
	}
	return &BlockParams{
		PrevBlockRef: strings.ToLower(cfg.PreviousBlockRef),
		Target:       target,
		Time:         blockTime,
		Reward:       cfg.RewardAmount,
		PubKeyHash:   pkh,
		Address:      cfg.RewardAddress,
		Convention:   convention,
	}, nil
}

func validateAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("empty address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if strings.TrimSpace(port) == "" {
		return errors.New("missing port")
	}
	if strings.Contains(host, " ") {
		return errors.New("invalid host")
	}
	return nil
}
