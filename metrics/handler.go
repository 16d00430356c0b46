// Package metrics serves Prometheus metrics together with liveness and
// readiness probes on one mux.
package metrics

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vortex-fintech/intlphone/errors"
)

// Check is a probe. A nil error means healthy.
type Check func(ctx context.Context) error

// Options configures New. Zero paths and timeouts take the defaults.
type Options struct {
	Registry     *prometheus.Registry
	Register     func(reg prometheus.Registerer) error
	Health       Check
	Ready        Check
	MetricsPath  string
	HealthPath   string
	ReadyPath    string
	CheckTimeout time.Duration
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			return
		}
	}
}

// New returns the mux and the registry it exposes. An error from
// opts.Register is returned after the mux is built, so callers may still
// serve probes.
func New(opts Options) (http.Handler, *prometheus.Registry, error) {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.HealthPath == "" {
		opts.HealthPath = "/health"
	}
	if opts.ReadyPath == "" {
		opts.ReadyPath = "/ready"
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = 500 * time.Millisecond
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	registerCollector(reg, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registerCollector(reg, collectors.NewGoCollector())

	var regErr error
	if opts.Register != nil {
		regErr = opts.Register(reg)
	}

	mux := http.NewServeMux()
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc(opts.HealthPath, probe("health", opts.Health, opts.CheckTimeout))
	mux.HandleFunc(opts.ReadyPath, probe("ready", opts.Ready, opts.CheckTimeout))

	return mux, reg, regErr
}

// probe answers 200 "OK", or 503 with the failure rendered as an
// ErrorResponse body.
func probe(name string, check Check, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		errCh := make(chan error, 1)
		go func() { errCh <- check(ctx) }()

		select {
		case err := <-errCh:
			if err != nil {
				checkFailure(err).
					WithDetail("probe", name).
					WriteHTTP(w, http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		case <-ctx.Done():
			errors.DeadlineExceeded().
				WithReason("check_timeout").
				WithMessage(name + " check timed out").
				WithDetail("probe", name).
				WriteHTTP(w, http.StatusServiceUnavailable)
		}
	}
}

func checkFailure(err error) errors.ErrorResponse {
	var e errors.ErrorResponse
	if stderrors.As(err, &e) {
		return e
	}
	return errors.Unavailable().
		WithReason("check_failed").
		WithMessage(err.Error()).
		WithCause(err)
}
