package node

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
	"github.com/pkg/errors"
)

// BlockWriter persists a mined block. Any error is fatal to the run.
type BlockWriter interface {
	WriteBlock(ctx context.Context, block *consensus.Block) error
}

// FileSink writes the block report: the header hex, the reward transaction
// as JSON, then one display txid per line for every transaction in block
// order, reward first.
type FileSink struct {
	Path string
}

func (s FileSink) WriteBlock(ctx context.Context, block *consensus.Block) error {
	if strings.TrimSpace(s.Path) == "" {
		return errors.New("output path required")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	report, err := EncodeBlockReport(block)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.Path, report, 0o644); err != nil {
		return errors.Wrapf(err, "write block report %s", s.Path)
	}
	return nil
}

func EncodeBlockReport(block *consensus.Block) ([]byte, error) {
	if block == nil || len(block.Txs) == 0 {
		return nil, errors.New("block has no reward transaction")
	}
	headerHex, err := block.Header.Hex()
	if err != nil {
		return nil, err
	}
	coinbase, err := json.Marshal(block.Txs[0])
	if err != nil {
		return nil, errors.Wrap(err, "encode reward tx")
	}
	txids, err := block.TxIDHexes()
	if err != nil {
		return nil, errors.Wrap(err, "compute txids")
	}

	var buf bytes.Buffer
	buf.WriteString(headerHex)
	buf.WriteByte('\n')
	buf.Write(coinbase)
	buf.WriteByte('\n')
	for _, id := range txids {
		buf.WriteString(id)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
