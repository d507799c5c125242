package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rigforge/configurator/cmd/configurator/container"
	"github.com/rigforge/configurator/cmd/configurator/handlers"
	"github.com/rigforge/configurator/cmd/configurator/repository"
	"github.com/rigforge/configurator/cmd/configurator/service"
	"github.com/rigforge/configurator/common/bootstrap"
	"github.com/rigforge/configurator/common/cache"
	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/catalog/catalogtest"
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/evaluation"
	"github.com/rigforge/configurator/common/logger"
	"github.com/rigforge/configurator/common/metrics"
	"github.com/rigforge/configurator/common/ratelimit"
	"github.com/rigforge/configurator/common/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog is the end-to-end scenario plus an LGA1700 CPU that no
// scenario board accepts
func testCatalog() *catalog.Catalog {
	parts := catalogtest.Scenario()
	intel := catalogtest.CPU(2, "250")
	intel.Name = "Core i5"
	intel.Socket = catalogtest.LGA1700
	parts.CPUs = append(parts.CPUs, intel)
	return catalog.New(parts)
}

func newTestContainer(t *testing.T, limiter ratelimit.Limiter) *container.Container {
	t.Helper()

	log := logger.NewWithWriter(io.Discard, "error", "text")
	m := metrics.New()
	mem := cache.NewMemoryCache(log)
	t.Cleanup(func() { _ = mem.Close() })

	defaults := compat.DefaultOptions()
	engine := compat.NewEngine()
	evaluator, err := evaluation.NewEvaluator(evaluation.DefaultProfiles()...)
	require.NoError(t, err)

	catalogService := service.NewCatalogService(catalog.StaticReader{Catalog: testCatalog()}, time.Minute, m, log)
	buildRepo := repository.NewMemoryBuildRepository()

	return &container.Container{
		Components:       &bootstrap.Components{Logger: log, Metrics: m, Cache: mem},
		Limiter:          limiter,
		RateLimits:       ratelimit.DefaultPolicies(30),
		BuildRepo:        buildRepo,
		CatalogService:   catalogService,
		PartService:      service.NewPartService(catalogService, engine, defaults, mem, time.Minute, m, log),
		SearchService:    service.NewSearchService(catalogService, search.NewGreedy(search.DefaultConfig(), nil), "test", mem, time.Minute, m, log),
		SelectionService: service.NewSelectionService(catalogService, engine, evaluator, defaults, log),
		BuildService:     service.NewBuildService(buildRepo, catalogService, m, log),
	}
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *echo.Echo {
	e := echo.New()
	e.Validator = handlers.NewValidator()
	Register(e, newTestContainer(t, limiter))
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, user, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func partIDs(t *testing.T, body map[string]interface{}) []float64 {
	t.Helper()
	parts, ok := body["parts"].([]interface{})
	require.True(t, ok, "parts missing from %v", body)
	ids := make([]float64, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.(map[string]interface{})["id"].(float64))
	}
	return ids
}

func TestResolveParts(t *testing.T) {
	e := newTestServer(t, nil)

	rec, body := do(t, e, http.MethodGet, "/api/v1/parts/cpu", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []float64{1, 2}, partIDs(t, body))
	assert.Equal(t, "cpu", body["part_type"])
	assert.Equal(t, "backward", body["policy"])

	rec, body = do(t, e, http.MethodGet, "/api/v1/parts/cpu?mobo=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []float64{1}, partIDs(t, body))
	assert.Equal(t, float64(1), body["count"])
}

func TestResolveParts_AttributeFilter(t *testing.T) {
	e := newTestServer(t, nil)

	rec, body := do(t, e, http.MethodGet, "/api/v1/parts/cpu?socket=lga1700", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []float64{2}, partIDs(t, body))

	rec, body = do(t, e, http.MethodGet, "/api/v1/parts/cpu?price_max=260", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []float64{2}, partIDs(t, body))
}

func TestResolveParts_Errors(t *testing.T) {
	e := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown part type", "/api/v1/parts/monitor", http.StatusBadRequest},
		{"non-numeric id", "/api/v1/parts/gpu?cpu=abc", http.StatusBadRequest},
		{"unknown policy", "/api/v1/parts/gpu?policy=loose", http.StatusBadRequest},
		{"malformed range", "/api/v1/parts/gpu?price_min=cheap", http.StatusBadRequest},
		{"missing part", "/api/v1/parts/gpu?cpu=99", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, e, http.MethodGet, tt.target, "", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFilterOptions(t *testing.T) {
	e := newTestServer(t, nil)

	for i := 0; i < 2; i++ {
		rec, body := do(t, e, http.MethodGet, "/api/v1/filter-options", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		cpu, ok := body["cpu"].([]interface{})
		require.True(t, ok)
		var sockets []interface{}
		for _, o := range cpu {
			opt := o.(map[string]interface{})
			if opt["field"] == "socket" {
				sockets = opt["values"].([]interface{})
			}
		}
		assert.Equal(t, []interface{}{"AM5", "LGA1700"}, sockets)
	}
}

func TestSearchBuilds(t *testing.T) {
	e := newTestServer(t, nil)

	rec, body := do(t, e, http.MethodGet, "/api/v1/builds/search?budget=1300", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["found"])
	build := body["build"].(map[string]interface{})
	assert.Equal(t, "1250", build["total_price"])
	assert.Equal(t, float64(1), build["cpu"].(map[string]interface{})["id"])

	rec, body = do(t, e, http.MethodGet, "/api/v1/builds/search?budget=1000", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["found"])
	assert.Nil(t, body["build"])
}

func TestSearchBuilds_Budget(t *testing.T) {
	e := newTestServer(t, nil)

	rec, body := do(t, e, http.MethodGet, "/api/v1/builds/search?budget=-5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["found"])

	rec, _ = do(t, e, http.MethodGet, "/api/v1/builds/search?budget=0", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, target := range []string{"/api/v1/builds/search", "/api/v1/builds/search?budget=abc", "/api/v1/builds/search?budget=12.5"} {
		rec, _ = do(t, e, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCheckBuild(t *testing.T) {
	e := newTestServer(t, nil)

	all := `{"cpu":1,"motherboard":1,"ram":1,"gpu":1,"storage":1,"psu":1,"case":1,"cooler":1}`
	rec, body := do(t, e, http.MethodPost, "/api/v1/builds/check", "", all)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["compatible"])
	assert.Empty(t, body["violations"])

	rec, body = do(t, e, http.MethodPost, "/api/v1/builds/check", "", `{"cpu":2,"motherboard":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["compatible"])
	assert.NotEmpty(t, body["violations"])

	rec, _ = do(t, e, http.MethodPost, "/api/v1/builds/check", "", `{"cpu":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/v1/builds/check", "", `{"policy":"loose"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateBuild(t *testing.T) {
	e := newTestServer(t, nil)

	all := `{"cpu":1,"motherboard":1,"ram":1,"gpu":1,"storage":1,"psu":1,"case":1}`
	rec, body := do(t, e, http.MethodPost, "/api/v1/builds/evaluate", "", all)
	require.Equal(t, http.StatusOK, rec.Code)
	profiles := body["profiles"].([]interface{})
	require.Len(t, profiles, 2)
	assert.Equal(t, "gaming", profiles[0].(map[string]interface{})["id"])

	rec, body = do(t, e, http.MethodPost, "/api/v1/builds/evaluate", "", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	profiles = body["profiles"].([]interface{})
	require.Len(t, profiles, 1)
	assert.Equal(t, evaluation.NoBuildID, profiles[0].(map[string]interface{})["id"])
}

func TestBuildLifecycle(t *testing.T) {
	e := newTestServer(t, nil)

	rec, _ := do(t, e, http.MethodPost, "/api/v1/builds", "", `{"cpu":1}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, saved := do(t, e, http.MethodPost, "/api/v1/builds", "alice", `{"name":"desk","cpu":1,"gpu":1,"cooler":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := saved["id"].(string)
	assert.Equal(t, "alice", saved["owner"])
	assert.Nil(t, saved["parent_id"])

	rec, got := do(t, e, http.MethodGet, "/api/v1/builds/"+id, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "desk", got["name"])
	assert.Equal(t, float64(1), got["gpu"])

	rec, _ = do(t, e, http.MethodGet, "/api/v1/builds/"+id, "bob", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/v1/builds/not-a-uuid", "alice", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	patch := `{"operations":[
		{"op":"replace","path":"/name","value":"desk v2"},
		{"op":"remove","path":"/cooler"},
		{"op":"replace","path":"/ram","value":1}
	]}`
	rec, patched := do(t, e, http.MethodPatch, "/api/v1/builds/"+id, "alice", patch)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, id, patched["id"])
	assert.Equal(t, id, patched["parent_id"])
	assert.Equal(t, "desk v2", patched["name"])
	assert.Equal(t, float64(1), patched["ram"])
	assert.Nil(t, patched["cooler"])

	// the parent snapshot is unchanged
	_, got = do(t, e, http.MethodGet, "/api/v1/builds/"+id, "alice", "")
	assert.Equal(t, "desk", got["name"])
	assert.Equal(t, float64(1), got["cooler"])

	rec, list := do(t, e, http.MethodGet, "/api/v1/builds", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), list["count"])

	rec, list = do(t, e, http.MethodGet, "/api/v1/builds", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), list["count"])
}

func TestSaveBuild_Rejections(t *testing.T) {
	e := newTestServer(t, nil)

	rec, _ := do(t, e, http.MethodPost, "/api/v1/builds", "alice", `{"gpu":99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/v1/builds", "alice", `{"gpu":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, saved := do(t, e, http.MethodPost, "/api/v1/builds", "alice", `{"cpu":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := saved["id"].(string)

	for _, patch := range []string{
		`{"operations":[]}`,
		`{"operations":[{"op":"replace","path":"/gpu","value":99}]}`,
		`{"operations":[{"op":"add","path":"/owner","value":"mallory"}]}`,
		`{"operations":[{"op":"move","from":"/missing","path":"/cpu"}]}`,
	} {
		rec, _ = do(t, e, http.MethodPatch, "/api/v1/builds/"+id, "alice", patch)
		assert.Equal(t, http.StatusBadRequest, rec.Code, patch)
	}
}

type denyLimiter struct {
	calls []ratelimit.Class
}

func (d *denyLimiter) CheckUserLimit(ctx context.Context, userID string, policy ratelimit.Policy) (*ratelimit.Result, error) {
	d.calls = append(d.calls, policy.Class)
	return &ratelimit.Result{Allowed: false, Limit: policy.Limit, CurrentCount: policy.Limit + 1}, nil
}

func TestSearchBuilds_RateLimited(t *testing.T) {
	limiter := &denyLimiter{}
	e := newTestServer(t, limiter)

	rec, body := do(t, e, http.MethodGet, "/api/v1/builds/search?budget=1300", "alice", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "user_rate_limit_exceeded", body["error"])
	assert.Equal(t, []ratelimit.Class{ratelimit.ClassSearch}, limiter.calls)

	// anonymous callers are not limited
	rec, _ = do(t, e, http.MethodGet, "/api/v1/builds/search?budget=1300", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
