package metrics_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vortex-fintech/intlphone/errors"
	"github.com/vortex-fintech/intlphone/metrics"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHandler_Defaults(t *testing.T) {
	h, _, err := metrics.New(metrics.Options{
		Register: func(r prometheus.Registerer) error {
			return r.Register(prometheus.NewCounter(prometheus.CounterOpts{
				Name: "test_metric_total",
				Help: "test metric to ensure output is not empty",
			}))
		},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()

	code, body := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "# HELP test_metric_total")
	require.Contains(t, body, "# TYPE test_metric_total counter")

	code, _ = get(t, srv.URL+"/health")
	require.Equal(t, http.StatusOK, code)
	code, _ = get(t, srv.URL+"/ready")
	require.Equal(t, http.StatusOK, code)
}

func TestHandler_RegisterErrorReturned(t *testing.T) {
	boom := errors.New("duplicate")
	h, reg, err := metrics.New(metrics.Options{
		Register: func(prometheus.Registerer) error { return boom },
	})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, h)
	require.NotNil(t, reg)
}

func TestHandler_ReadyFollowsCheck(t *testing.T) {
	var ready atomic.Bool
	h, _, err := metrics.New(metrics.Options{
		Ready: func(context.Context) error {
			if !ready.Load() {
				return errors.New("catalog not loaded")
			}
			return nil
		},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	code, body := get(t, srv.URL+"/ready")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body, `"reason":"check_failed"`)
	require.Contains(t, body, `"message":"catalog not loaded"`)
	require.Contains(t, body, `"probe":"ready"`)

	ready.Store(true)
	code, _ = get(t, srv.URL+"/ready")
	require.Equal(t, http.StatusOK, code)
}

func TestHandler_HealthFailureAndTimeout(t *testing.T) {
	h, _, err := metrics.New(metrics.Options{
		Health: func(context.Context) error {
			time.Sleep(300 * time.Millisecond)
			return nil
		},
		CheckTimeout: 20 * time.Millisecond,
		HealthPath:   "/live",
	})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	code, body := get(t, srv.URL+"/live")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body, `"reason":"check_timeout"`)
	require.Contains(t, body, `"probe":"health"`)
}

func TestHandler_ReadyRendersCatalogError(t *testing.T) {
	h, _, err := metrics.New(metrics.Options{
		Ready: func(context.Context) error { return apperrors.CatalogNotReady() },
	})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var body struct {
		Code    string            `json:"code"`
		Reason  string            `json:"reason"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "FailedPrecondition", body.Code)
	require.Equal(t, "catalog_not_ready", body.Reason)
	require.Equal(t, "ready", body.Details["probe"])
}

func TestHandler_UsesProvidedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, got, err := metrics.New(metrics.Options{Registry: reg})
	require.NoError(t, err)
	require.Same(t, reg, got)

	_, _, err = metrics.New(metrics.Options{Registry: reg})
	require.NoError(t, err)
}
