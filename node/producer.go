package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
)

// Producer runs one candidate block through load, validate, assemble, mine
// and write. Ownership of the block passes linearly through those stages.
type Producer struct {
	source    PoolSource
	validator *Validator
	miner     *Miner
	sinks     []BlockWriter
	logger    *slog.Logger
}

type Produced struct {
	Block *consensus.Block
	Pool  *PoolResult
	Mined *MineResult
}

func NewProducer(source PoolSource, validator *Validator, miner *Miner, logger *slog.Logger, sinks ...BlockWriter) (*Producer, error) {
	if source == nil {
		return nil, errors.New("nil pool source")
	}
	if validator == nil {
		return nil, errors.New("nil validator")
	}
	if miner == nil {
		return nil, errors.New("nil miner")
	}
	for i, s := range sinks {
		if s == nil {
			return nil, fmt.Errorf("nil block writer at %d", i)
		}
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Producer{
		source:    source,
		validator: validator,
		miner:     miner,
		sinks:     sinks,
		logger:    logger,
	}, nil
}

func (p *Producer) Produce(ctx context.Context, params *BlockParams) (*Produced, error) {
	if params == nil {
		return nil, errors.New("nil block params")
	}
	pool, err := p.source.LoadPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	result := p.validator.Validate(pool)

	coinbase := consensus.NewCoinbaseTx(params.Reward, params.PubKeyHash, params.Address)
	txs := consensus.WithCoinbase(coinbase, result.Txs())
	block, err := consensus.AssembleBlock(txs, params.PrevBlockRef, params.Time, params.Target, params.Convention)
	if err != nil {
		return nil, fmt.Errorf("assemble block: %w", err)
	}
	p.logger.Info("block assembled",
		"transactions", len(block.Txs),
		"merkle_root", block.Header.MerkleRoot,
		"bits", fmt.Sprintf("%08x", block.Header.Bits),
		"convention", string(params.Convention))

	mined, err := p.miner.Mine(ctx, block, params.Target)
	if err != nil {
		return nil, fmt.Errorf("mine block: %w", err)
	}
	for _, s := range p.sinks {
		if err := s.WriteBlock(ctx, block); err != nil {
			return nil, fmt.Errorf("write block: %w", err)
		}
	}
	return &Produced{Block: block, Pool: result, Mined: mined}, nil
}
