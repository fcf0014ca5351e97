package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/node"
	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/node/store"
	"github.com/spf13/cobra"
)

var mineFlagKeys = map[string]string{
	"previous_block_ref": "prev",
	"target_difficulty":  "target",
	"block_time":         "time",
	"reward_amount":      "reward",
	"reward_address":     "address",
	"merkle_convention":  "merkle",
	"pool_dir":           "pool-dir",
	"pool_db":            "pool-db",
	"output_path":        "output",
	"archive_path":       "archive",
	"workers":            "workers",
	"report_interval":    "report-interval",
	"metrics_addr":       "metrics-addr",
	"progress":           "progress",
}

func newMineCmd(opts *rootOptions) *cobra.Command {
	d := node.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Validate the pool, assemble a block and search for a nonce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(opts.v, cmd.Flags(), mineFlagKeys)
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runMine(cmd, cfg)
		},
	}
	f := cmd.Flags()
	f.String("prev", d.PreviousBlockRef, "previous block reference, 64 hex digits copied into the header")
	f.String("target", d.TargetDifficulty, "proof-of-work target, big-endian hex")
	f.Uint32("time", d.BlockTime, "header time in unix seconds (0 = now)")
	f.Uint64("reward", d.RewardAmount, "reward transaction output value")
	f.String("address", d.RewardAddress, "base58check P2PKH address paid by the reward transaction")
	f.String("merkle", d.MerkleConvention, "merkle convention: txid-tree|json-flat")
	f.String("pool-dir", d.PoolDir, "directory with one transaction JSON file per entry")
	f.String("pool-db", d.PoolDB, "bbolt pool snapshot; overrides --pool-dir when set")
	f.String("output", d.OutputPath, "block report output file")
	f.String("archive", d.ArchivePath, "bbolt file the mined block is archived in")
	f.Int("workers", d.Workers, "parallel nonce search workers")
	f.Duration("report-interval", d.ReportInterval, "mining progress log interval (0 disables)")
	f.String("metrics-addr", d.MetricsAddr, "serve Prometheus metrics on host:port while running")
	f.Bool("progress", d.Progress, "show a progress bar while validating the pool")
	return cmd
}

func runMine(cmd *cobra.Command, cfg node.Config) error {
	ctx := cmd.Context()
	logger, err := node.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return usageError{err}
	}
	params, err := node.ResolveBlockParams(cfg, unixNow())
	if err != nil {
		return usageError{err}
	}

	metrics := node.NewMetrics()
	if cfg.MetricsAddr != "" {
		_, stop, err := node.ServeMetrics(ctx, cfg.MetricsAddr, metrics, logger)
		if err != nil {
			return fmt.Errorf("serve metrics: %w", err)
		}
		defer stop()
	}

	dbs := map[string]*store.DB{}
	defer func() {
		for _, db := range dbs {
			_ = db.Close()
		}
	}()
	openDB := func(path string) (*store.DB, error) {
		if db, ok := dbs[path]; ok {
			return db, nil
		}
		db, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		dbs[path] = db
		return db, nil
	}

	var source node.PoolSource = node.DirSource{Dir: cfg.PoolDir}
	if cfg.PoolDB != "" {
		db, err := openDB(cfg.PoolDB)
		if err != nil {
			return err
		}
		source = db
	}
	sinks := []node.BlockWriter{node.FileSink{Path: cfg.OutputPath}}
	if cfg.ArchivePath != "" {
		db, err := openDB(cfg.ArchivePath)
		if err != nil {
			return err
		}
		sinks = append(sinks, db)
	}

	validator := node.NewValidator(node.ValidatorConfig{
		Logger:         logger,
		Metrics:        metrics,
		Progress:       cfg.Progress,
		ProgressWriter: cmd.ErrOrStderr(),
	})
	miner, err := node.NewMiner(node.MinerConfig{
		Workers:        cfg.Workers,
		ReportInterval: cfg.ReportInterval,
		Logger:         logger,
		Metrics:        metrics,
	})
	if err != nil {
		return usageError{err}
	}
	producer, err := node.NewProducer(source, validator, miner, logger, sinks...)
	if err != nil {
		return err
	}

	logger.Info("starting", slog.Group("pool", "dir", cfg.PoolDir, "db", cfg.PoolDB), "output", cfg.OutputPath)
	got, err := producer.Produce(ctx, params)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mined: hash=%s nonce=%d time=%d tx_count=%d accepted=%d rejected=%d\n",
		hex.EncodeToString(got.Mined.Hash[:]),
		got.Block.Header.Nonce,
		got.Block.Header.Time,
		len(got.Block.Txs),
		len(got.Pool.Accepted),
		len(got.Pool.Rejected))
	return nil
}
