package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rigforge/configurator/common/logger"
	"github.com/stretchr/testify/assert"
)

func TestNew_DisabledEndpoints(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "error", "text")

	tel := New(0, 9090, nil, log)
	assert.Empty(t, tel.pprofAddr)
	assert.Empty(t, tel.metricsAddr)

	tel = New(6060, 9090, http.NotFoundHandler(), log)
	assert.Equal(t, "localhost:6060", tel.pprofAddr)
	assert.Equal(t, ":9090", tel.metricsAddr)
}

func TestMetricsMux(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("configurator_up 1"))
	})
	rec := httptest.NewRecorder()
	MetricsMux(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "configurator_up 1", rec.Body.String())
}

func TestPprofMux(t *testing.T) {
	rec := httptest.NewRecorder()
	PprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
