package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-finance-planner/internal/config"
	"github.com/cloud-ru/mcp-finance-planner/internal/prolabore"
	"github.com/cloud-ru/mcp-finance-planner/internal/report"
	"github.com/cloud-ru/mcp-finance-planner/internal/repository"
	"github.com/cloud-ru/mcp-finance-planner/internal/simulation"
	"github.com/cloud-ru/mcp-finance-planner/internal/tools"
)

func newTestServer(t *testing.T, limiter *RateLimiter) *httptest.Server {
	t.Helper()
	cfg := &config.Config{MaxPrincipal: 1e9, MaxMonths: 600, MaxMonthlyRate: 0.2, MaxEarlyPayments: 10}
	svc := simulation.NewService(repository.NewMemoryRepository(), cfg, zap.NewNop())
	tpl, err := prolabore.DefaultTemplate()
	require.NoError(t, err)

	srv := New(
		tools.NewRegistry(cfg, svc, otel.Tracer("server-test")),
		svc,
		report.NewGenerator(nil),
		tpl,
		limiter,
		zap.NewNop(),
	)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

const termsBody = `{"total_price": 120000, "months": 12, "monthly_rate": 0.01, "system": "PRICE", "start_date": "2025-01-15"}`

func postTool(t *testing.T, ts *httptest.Server, name, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/tools/"+name, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	postTool(t, ts, "loan_schedule", termsBody)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "tool_calls_total")
}

func TestCallTool(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, out := postTool(t, ts, "loan_schedule", termsBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := out["result"].(map[string]interface{})
	summary := result["summary"].(map[string]interface{})
	assert.Equal(t, "10661.85", summary["first_payment"])
	assert.Len(t, result["schedule"], 12)
}

func TestCallToolErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		tool   string
		body   string
		status int
	}{
		{name: "unknown tool", tool: "mortgage_magic", body: `{}`, status: http.StatusNotFound},
		{name: "malformed json", tool: "loan_schedule", body: `{"months":`, status: http.StatusBadRequest},
		{name: "missing parameter", tool: "loan_schedule", body: `{"months": 12}`, status: http.StatusBadRequest},
		{name: "invalid terms", tool: "loan_schedule", body: strings.Replace(termsBody, `"months": 12`, `"months": 0`, 1), status: http.StatusBadRequest},
		{name: "missing simulation", tool: "simulation_get", body: `{"id": "nope"}`, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postTool(t, ts, tt.tool, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestSimulationReports(t *testing.T) {
	ts := newTestServer(t, nil)

	_, created := postTool(t, ts, "simulation_create", termsBody)
	id := created["result"].(map[string]interface{})["id"].(string)
	_, other := postTool(t, ts, "simulation_create", strings.Replace(termsBody, "PRICE", "SAC", 1))
	otherID := other["result"].(map[string]interface{})["id"].(string)

	resp, err := http.Get(ts.URL + "/reports/simulations/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp, err = http.Get(ts.URL + "/reports/comparison?a=" + id + "&b=" + otherID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/reports/simulations/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/reports/comparison?a=" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProLaboreReport(t *testing.T) {
	ts := newTestServer(t, nil)

	body := `{
		"values": {"company_name": "Padaria Central", "cnpj": "12.345.678/0001-90", "calculation_date": "2025-03-10", "pro_labore_value": "2500.00"},
		"input": {"services": 10000, "monthly": 3000, "pro_labore": 2500, "taxes": 6}
	}`
	resp, err := http.Post(ts.URL+"/reports/prolabore", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	missing := strings.Replace(body, `"cnpj": "12.345.678/0001-90", `, "", 1)
	resp, err = http.Post(ts.URL+"/reports/prolabore", "application/json", strings.NewReader(missing))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	t.Cleanup(limiter.Stop)
	ts := newTestServer(t, limiter)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(ts.URL + "/tools")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := http.Get(ts.URL + "/tools")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// health и метрики не ограничиваются
	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimiterRefill(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("10.0.0.1"))

	now = now.Add(2 * time.Hour)
	limiter.cleanup()
	assert.Empty(t, limiter.clients)
}
