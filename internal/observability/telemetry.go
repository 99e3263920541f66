// Package observability wires tracing, log export and profiling for a node.
package observability

import (
	"context"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-league-contracts/internal/config"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
)

// Telemetry holds everything Start brought up so it can be torn down in
// reverse order.
type Telemetry struct {
	logger        *logging.Logger
	shutdownTrace func(context.Context) error
	stopProfiler  func() error
	pprof         *http.Server
}

// Start brings up uptrace, pyroscope and the pprof listener. On failure the
// parts already started are stopped again.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger.Named("observability")}

	shutdownTrace, err := InitUptrace(cfg, t.logger)
	if err != nil {
		return nil, crerr.Wrap(err, "init uptrace")
	}
	t.shutdownTrace = shutdownTrace

	stopProfiler, err := InitPyroscope(cfg, t.logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, crerr.Wrap(err, "init pyroscope")
	}
	t.stopProfiler = stopProfiler

	srv, err := StartPprofServer(cfg, t.logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, crerr.Wrap(err, "start pprof")
	}
	t.pprof = srv
	return t, nil
}

// PprofAddr is the bound pprof address, or "" when pprof is off.
func (t *Telemetry) PprofAddr() string {
	if t == nil || t.pprof == nil {
		return ""
	}
	return t.pprof.Addr
}

// Shutdown stops pprof, then the profiler, then flushes traces and logs.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs error
	if t.pprof != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := StopPprofServer(t.pprof, t.logger, timeout); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "stop pprof"))
		}
		t.pprof = nil
	}
	if t.stopProfiler != nil {
		if err := t.stopProfiler(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "stop pyroscope"))
		}
		t.stopProfiler = nil
	}
	if t.shutdownTrace != nil {
		if err := t.shutdownTrace(ctx); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "shutdown uptrace"))
		}
		t.shutdownTrace = nil
	}
	return errs
}
