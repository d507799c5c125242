package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/rigforge/configurator/common/logger"
)

// Telemetry serves pprof and Prometheus metrics on side ports
type Telemetry struct {
	log         *logger.Logger
	pprofAddr   string
	metricsAddr string
	metrics     http.Handler
	servers     []*http.Server
}

// New creates telemetry endpoints. A zero port disables that endpoint; a nil
// metrics handler disables /metrics.
func New(pprofPort, metricsPort int, metrics http.Handler, log *logger.Logger) *Telemetry {
	t := &Telemetry{log: log, metrics: metrics}
	if pprofPort > 0 {
		t.pprofAddr = fmt.Sprintf("localhost:%d", pprofPort)
	}
	if metricsPort > 0 && metrics != nil {
		t.metricsAddr = fmt.Sprintf(":%d", metricsPort)
	}
	return t
}

// PprofMux returns the debug handlers
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// MetricsMux returns a mux serving h at /metrics
func MetricsMux(h http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	return mux
}

// Start starts the configured endpoints in the background
func (t *Telemetry) Start(ctx context.Context) error {
	if t.pprofAddr != "" {
		t.serve("pprof", t.pprofAddr, PprofMux())
	}
	if t.metricsAddr != "" {
		t.serve("metrics", t.metricsAddr, MetricsMux(t.metrics))
	}
	return nil
}

func (t *Telemetry) serve(name, addr string, h http.Handler) {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	t.servers = append(t.servers, srv)

	go func() {
		t.log.Info("telemetry server starting", "server", name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.log.Error("telemetry server error", "server", name, "error", err)
		}
	}()
}

// Stop shuts the endpoints down
func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	for _, srv := range t.servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordDuration logs an operation's duration at debug level
func (t *Telemetry) RecordDuration(operation string, start time.Time) {
	t.log.Debug("operation completed",
		"operation", operation,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
