package watch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ppiankov/phiscrub/internal/scrub"
)

// Outcome labels for phiscrub_notes_total.
const (
	outcomeDone   = "done"
	outcomeFailed = "failed"
)

const (
	metricsReadTimeout     = 5 * time.Second
	metricsWriteTimeout    = 10 * time.Second
	metricsShutdownTimeout = 5 * time.Second
	metricsRatePerSec      = 10
	metricsRateBurst       = 20
)

// Metrics are the watcher's Prometheus collectors, registered on their own
// registry. Labels carry categories and outcomes only, never note content
// or file names.
type Metrics struct {
	registry   *prometheus.Registry
	notes      *prometheus.CounterVec
	redactions *prometheus.CounterVec
	inputBytes prometheus.Counter
	duration   prometheus.Histogram
}

// NewMetrics creates and registers the watcher collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		notes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phiscrub_notes_total",
				Help: "Notes taken from the inbox, by outcome.",
			},
			[]string{"outcome"},
		),
		redactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phiscrub_redactions_total",
				Help: "Spans replaced with a placeholder token, by category.",
			},
			[]string{"category"},
		),
		inputBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "phiscrub_input_bytes_total",
				Help: "Bytes of note text scrubbed.",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "phiscrub_scrub_duration_seconds",
				Help:    "Time to scrub one note.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
			},
		),
	}
	m.registry.MustRegister(m.notes, m.redactions, m.inputBytes, m.duration)
	return m
}

func (m *Metrics) observe(res *scrub.Result, size int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.notes.WithLabelValues(outcomeDone).Inc()
	m.inputBytes.Add(float64(size))
	m.duration.Observe(elapsed.Seconds())
	for cat, n := range res.Counts {
		m.redactions.WithLabelValues(string(cat)).Add(float64(n))
	}
}

func (m *Metrics) failed() {
	if m == nil {
		return
	}
	m.notes.WithLabelValues(outcomeFailed).Inc()
}

// Handler serves the registry in the Prometheus exposition format, rate
// limited.
func (m *Metrics) Handler() http.Handler {
	limiter := rate.NewLimiter(rate.Limit(metricsRatePerSec), metricsRateBurst)
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		h.ServeHTTP(w, r)
	})
}

// Serve exposes /metrics on addr until ctx is cancelled. Only loopback
// addresses are accepted.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	if err := checkLoopback(addr); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  metricsReadTimeout,
		WriteTimeout: metricsWriteTimeout,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(sctx)
	}()

	log.Info("metrics listening", zap.String("addr", ln.Addr().String()))
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

func checkLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("metrics address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("metrics address %q: only loopback hosts are allowed", addr)
	}
	return nil
}
