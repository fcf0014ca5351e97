package node

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
	"golang.org/x/sync/errgroup"
)

type MinerConfig struct {
	// Workers partition the nonce space: worker i tries i, i+W, i+2W, ...
	Workers int

	// ReportInterval is how often search progress is logged; 0 disables it.
	ReportInterval time.Duration

	Logger  *slog.Logger
	Metrics *Metrics
}

type MineResult struct {
	Hash     [32]byte
	Attempts uint64
	Worker   int
	Elapsed  time.Duration
}

type Miner struct {
	cfg MinerConfig
}

func DefaultMinerConfig() MinerConfig {
	return MinerConfig{
		Workers:        1,
		ReportInterval: 10 * time.Second,
	}
}

func NewMiner(cfg MinerConfig) (*Miner, error) {
	if cfg.Workers < 0 {
		return nil, errors.New("workers must be >= 0")
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Workers > MaxWorkers {
		return nil, fmt.Errorf("workers must be <= %d", MaxWorkers)
	}
	if cfg.ReportInterval < 0 {
		return nil, errors.New("report_interval must be >= 0")
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	return &Miner{cfg: cfg}, nil
}

// Mine searches for a nonce that puts the block hash strictly below target
// and writes the winning header back into block. The commitment fields are
// left as assembled; only Nonce (and Time on nonce exhaustion) change.
func (m *Miner) Mine(ctx context.Context, block *consensus.Block, target *big.Int) (*MineResult, error) {
	if m == nil {
		return nil, errors.New("miner is not initialized")
	}
	if block == nil {
		return nil, errors.New("nil block")
	}
	if err := consensus.ValidateTarget(target); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m.logTarget(block.Header.Bits, target)

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(searchCtx)

	var (
		attempts atomic.Uint64
		found    atomic.Bool
		once     sync.Once
		winner   *consensus.SearchResult
		winnerID int
	)
	start := time.Now()
	workers := m.cfg.Workers
	header := block.Header
	for i := 0; i < workers; i++ {
		worker := i
		g.Go(func() error {
			res, err := consensus.SearchNonce(gctx, header, target, consensus.SearchOptions{
				Start:    uint32(worker),
				Stride:   uint32(workers),
				Attempts: &attempts,
			})
			if err != nil {
				if found.Load() {
					return nil
				}
				return err
			}
			once.Do(func() {
				winner = res
				winnerID = worker
				found.Store(true)
				cancel()
			})
			return nil
		})
	}

	stopReport := m.startReporter(&attempts, start)
	err := g.Wait()
	stopReport()
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, errors.New("nonce search ended without a result")
	}

	elapsed := time.Since(start)
	total := attempts.Load()
	block.Header = winner.Header
	m.cfg.Metrics.observeMined(total, elapsed)
	m.cfg.Logger.Info("block mined",
		"hash", hex.EncodeToString(winner.Hash[:]),
		"nonce", winner.Header.Nonce,
		"time", winner.Header.Time,
		"attempts", total,
		"worker", winnerID,
		"elapsed", elapsed)
	return &MineResult{
		Hash:     winner.Hash,
		Attempts: total,
		Worker:   winnerID,
		Elapsed:  elapsed,
	}, nil
}

// logTarget records the target the header commits to. The search itself
// compares against the full target, so a lossy compact encoding is only
// reported.
func (m *Miner) logTarget(bits uint32, target *big.Int) {
	full := consensus.TargetBytes(target)
	committed, err := consensus.DecompressTarget(bits)
	if err != nil {
		m.cfg.Logger.Warn("header bits do not decode", "bits", fmt.Sprintf("%08x", bits), "error", err)
		return
	}
	c := consensus.TargetBytes(committed)
	m.cfg.Logger.Info("mining",
		"bits", fmt.Sprintf("%08x", bits),
		"target", hex.EncodeToString(c[:]),
		"workers", m.cfg.Workers)
	if committed.Cmp(target) != 0 {
		m.cfg.Logger.Warn("compact bits are lossy for target",
			"target", hex.EncodeToString(full[:]),
			"bits", fmt.Sprintf("%08x", bits))
	}
}

func (m *Miner) startReporter(attempts *atomic.Uint64, start time.Time) func() {
	if m.cfg.ReportInterval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(m.cfg.ReportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				n := attempts.Load()
				secs := time.Since(start).Seconds()
				rate := 0.0
				if secs > 0 {
					rate = float64(n) / secs
				}
				m.cfg.Logger.Info("mining progress", "attempts", n, "hashes_per_sec", int64(rate))
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}
