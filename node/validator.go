package node

import (
	"io"
	"log/slog"
	"os"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
	"github.com/schollz/progressbar/v3"
)

type ValidatorConfig struct {
	Logger  *slog.Logger
	Metrics *Metrics

	// Progress renders a bar over the parse and check passes on
	// ProgressWriter (stderr when nil).
	Progress       bool
	ProgressWriter io.Writer
}

type Validator struct {
	cfg ValidatorConfig
}

func NewValidator(cfg ValidatorConfig) *Validator {
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	if cfg.ProgressWriter == nil {
		cfg.ProgressWriter = os.Stderr
	}
	return &Validator{cfg: cfg}
}

// Validate runs the two-pass filter: parse every entry and index its spent
// outpoints, then check each parsed transaction against the full index.
// Failures are recorded per transaction and never abort the pass.
func (v *Validator) Validate(pool map[string][]byte) *PoolResult {
	keys := sortedKeys(pool)
	res := &PoolResult{Counts: make(map[consensus.ErrorCode]int)}
	bar := v.newBar(2 * len(keys))

	parsed := make(map[string]*consensus.Tx, len(keys))
	for _, key := range keys {
		tx, err := consensus.ParseTx(pool[key])
		if err != nil {
			v.reject(res, Rejection{Key: key, Err: err})
		} else {
			parsed[key] = tx
		}
		v.step(bar)
	}
	index := BuildSpendIndex(parsed)

	for _, key := range keys {
		tx, ok := parsed[key]
		if !ok {
			v.step(bar)
			continue
		}
		raw := pool[key]
		if err := CheckTx(key, raw, tx, index); err != nil {
			v.reject(res, Rejection{Key: key, Err: err})
		} else {
			res.Accepted = append(res.Accepted, PoolTx{Key: key, Raw: raw, Tx: tx})
			v.cfg.Metrics.observePoolAccepted()
		}
		v.step(bar)
	}
	if bar != nil {
		if err := bar.Finish(); err != nil {
			v.cfg.Logger.Warn("Failed to finish progress bar", "error", err)
		}
	}

	// Rejections from the parse pass were appended first.
	sortRejections(res.Rejected)
	v.cfg.Logger.Info("pool validated",
		"pool", len(keys),
		"accepted", len(res.Accepted),
		"rejected", len(res.Rejected))
	return res
}

func (v *Validator) reject(res *PoolResult, r Rejection) {
	code := r.Code()
	res.Rejected = append(res.Rejected, r)
	res.Counts[code]++
	v.cfg.Metrics.observePoolRejected(code)
	logRejection(v.cfg.Logger, r)
}

func (v *Validator) newBar(total int) *progressbar.ProgressBar {
	if !v.cfg.Progress || total == 0 {
		return nil
	}
	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(v.cfg.ProgressWriter),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Validating pool..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	if err := bar.RenderBlank(); err != nil {
		v.cfg.Logger.Warn("Failed to render progress bar", "error", err)
	}
	return bar
}

func (v *Validator) step(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	if err := bar.Add(1); err != nil {
		v.cfg.Logger.Warn("Failed to update progress bar", "error", err)
	}
}
