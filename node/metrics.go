package node

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/consensus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "blockminer"

// Metrics holds the run's collectors on a private registry. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	poolTxs       *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	powHashes     prometheus.Counter
	blocksMined   prometheus.Counter
	miningSeconds prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		poolTxs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pool_transactions_total",
			Help:      "Pool transactions by validation result.",
		}, []string{"result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pool_rejections_total",
			Help:      "Rejected pool transactions by error code.",
		}, []string{"code"}),
		powHashes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pow_hashes_total",
			Help:      "Header hashes tried by the nonce search.",
		}),
		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "blocks_mined_total",
			Help:      "Blocks whose header met the target.",
		}),
		miningSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "mining_seconds",
			Help:      "Wall time of each nonce search.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	m.registry.MustRegister(m.poolTxs, m.rejections, m.powHashes, m.blocksMined, m.miningSeconds)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observePoolAccepted() {
	if m == nil {
		return
	}
	m.poolTxs.WithLabelValues("accepted").Inc()
}

func (m *Metrics) observePoolRejected(code consensus.ErrorCode) {
	if m == nil {
		return
	}
	m.poolTxs.WithLabelValues("rejected").Inc()
	m.rejections.WithLabelValues(string(code)).Inc()
}

func (m *Metrics) observeMined(hashes uint64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.powHashes.Add(float64(hashes))
	m.blocksMined.Inc()
	m.miningSeconds.Observe(elapsed.Seconds())
}

// ServeMetrics exposes /metrics on addr until ctx is done or the returned
// stop function is called. It returns the bound listener address.
func ServeMetrics(ctx context.Context, addr string, m *Metrics, logger *slog.Logger) (net.Addr, func(), error) {
	if m == nil {
		return nil, nil, errors.New("nil metrics")
	}
	if logger == nil {
		logger = discardLogger()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	stopCtx, cancel := context.WithCancel(ctx)
	go func() {
		<-stopCtx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return ln.Addr(), cancel, nil
}
