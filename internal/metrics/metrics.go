package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/cadre/internal/program"
)

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the gateway collectors.
type Metrics struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	programsFetched prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadre_gateway_requests_total",
				Help: "Gateway calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cadre_gateway_latency_ms",
				Help:    "Gateway call latency in milliseconds",
				Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"op"},
		),
		programsFetched: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cadre_programs_loaded",
				Help: "Number of programs returned by the last successful list",
			},
		),
	}
}

func (m *Metrics) observe(op string, started time.Time, err error) {
	m.latency.WithLabelValues(op).Observe(float64(time.Since(started).Microseconds()) / 1000.0)
	m.requests.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	var verr *program.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &verr):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// Gateway wraps a program.Gateway and records every call.
type Gateway struct {
	next    program.Gateway
	metrics *Metrics
}

var _ program.Gateway = (*Gateway)(nil)

// Instrument returns next wrapped with m.
func Instrument(next program.Gateway, m *Metrics) *Gateway {
	return &Gateway{next: next, metrics: m}
}

// GetAll lists programs through the wrapped gateway.
func (g *Gateway) GetAll(ctx context.Context) ([]program.Snapshot, error) {
	started := time.Now()
	snaps, err := g.next.GetAll(ctx)
	g.metrics.observe("get_all", started, err)
	if err == nil {
		g.metrics.programsFetched.Set(float64(len(snaps)))
	}
	return snaps, err
}

// Create stores a draft through the wrapped gateway.
func (g *Gateway) Create(ctx context.Context, draft program.Draft) (string, error) {
	started := time.Now()
	id, err := g.next.Create(ctx, draft)
	g.metrics.observe("create", started, err)
	return id, err
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
