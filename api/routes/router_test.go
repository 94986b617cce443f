package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	"github.com/lopeshyago/fusionbackapp/internal/auth"
	"github.com/lopeshyago/fusionbackapp/internal/invites"
	"github.com/lopeshyago/fusionbackapp/internal/records"
	"github.com/lopeshyago/fusionbackapp/internal/testutil"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
	"github.com/lopeshyago/fusionbackapp/pkg/metrics"
	"github.com/lopeshyago/fusionbackapp/pkg/security"
)

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func (m *memoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

type testServer struct {
	handler     http.Handler
	revocations *memoryRevocations
	registry    *prometheus.Registry
}

func testConfig(env string) *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: env},
		JWT:  testutil.TestJWTConfig(),
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestServer(t *testing.T, env string) *testServer {
	t.Helper()
	client := testutil.NewDB(t)
	cfg := testConfig(env)

	inviteSvc, err := invites.NewService(invites.ServiceParams{DB: client, Config: config.InviteConfig{DefaultTTLDays: 7, CodeLength: 8}})
	require.NoError(t, err)
	accountSvc, err := accounts.NewService(client)
	require.NoError(t, err)
	revocations := &memoryRevocations{revoked: map[string]time.Duration{}}
	authSvc, err := auth.NewService(auth.ServiceParams{
		DB:        client,
		Hasher:    security.NewHasher(testutil.TestPasswordConfig()),
		Invites:   inviteSvc,
		JWTConfig: cfg.JWT,
		Revoker:   revocations,
	})
	require.NoError(t, err)
	recordSvc, err := records.NewService(records.ServiceParams{DB: client, Accounts: accountSvc, Invites: inviteSvc})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	handler := NewRouter(cfg, logger.Nop(), Infra{
		DB:          client,
		Revocations: revocations,
		Metrics:     metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
	}, Services{Auth: authSvc, Accounts: accountSvc, Invites: inviteSvc, Records: recordSvc})

	return &testServer{handler: handler, revocations: revocations, registry: registry}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)

	var envelope map[string]any
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	}
	return resp, envelope
}

func dataMap(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %#v", envelope)
	}
	return data
}

func tokenOf(t *testing.T, envelope map[string]any) string {
	t.Helper()
	token, _ := dataMap(t, envelope)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, "dev")

	resp, _ := srv.do(t, http.MethodGet, "/health/live", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected live 200, got %d", resp.Code)
	}

	resp, env := srv.do(t, http.MethodGet, "/health/ready", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ready 200, got %d", resp.Code)
	}
	checks := dataMap(t, env)["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestProtectedRoutesRejectMissingAndBadTokens(t *testing.T) {
	srv := newTestServer(t, "dev")

	for _, path := range []string{"/me", "/api/notices"} {
		missing, missingEnv := srv.do(t, http.MethodGet, path, "", nil)
		bad, badEnv := srv.do(t, http.MethodGet, path, "not-a-jwt", nil)
		if missing.Code != http.StatusUnauthorized || bad.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401s, got %d and %d", path, missing.Code, bad.Code)
		}
		assert.Equal(t, missingEnv, badEnv, "auth failures must be indistinguishable")
	}
}

func TestAdminBootstrapOnlyInDev(t *testing.T) {
	prod := newTestServer(t, "prod")
	resp, _ := prod.do(t, http.MethodPost, "/auth/admin/register", "", map[string]any{"email": "root@fusion.test", "password": "secret1"})
	if resp.Code != http.StatusNotFound && resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected admin bootstrap to be unmounted in prod, got %d", resp.Code)
	}
}

func TestEndToEndInviteAndRecordFlow(t *testing.T) {
	srv := newTestServer(t, "dev")

	resp, env := srv.do(t, http.MethodPost, "/auth/admin/register", "", map[string]any{"email": "root@fusion.test", "password": "secret1", "full_name": "Root"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	adminToken := tokenOf(t, env)

	resp, env = srv.do(t, http.MethodPost, "/auth/register", "", map[string]any{"email": "stu@fusion.test", "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	studentToken := tokenOf(t, env)

	resp, _ = srv.do(t, http.MethodPost, "/invites/instructor", studentToken, map[string]any{})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected student to be forbidden from issuing invites, got %d", resp.Code)
	}

	resp, env = srv.do(t, http.MethodPost, "/invites/instructor", adminToken, map[string]any{"ttl_days": 3})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	code := dataMap(t, env)["code"].(string)

	resp, env = srv.do(t, http.MethodGet, "/invites/instructor", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, env["data"], 1)

	payload := map[string]any{"invite_code": code, "email": "coach@fusion.test", "password": "secret1", "full_name": "Coach"}
	resp, env = srv.do(t, http.MethodPost, "/register/instructor", "", payload)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	coachToken := tokenOf(t, env)

	payload["email"] = "coach2@fusion.test"
	resp, _ = srv.do(t, http.MethodPost, "/register/instructor", "", payload)
	if resp.Code < 400 || resp.Code >= 500 {
		t.Fatalf("expected used invite to be rejected with a client error, got %d", resp.Code)
	}

	resp, env = srv.do(t, http.MethodPost, "/api/workouts", coachToken, map[string]any{"name": "Leg day"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	workoutID := int64(dataMap(t, env)["id"].(float64))
	require.Positive(t, workoutID)

	resp, env = srv.do(t, http.MethodGet, "/api/workouts", studentToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	rows := env["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Leg day", rows[0].(map[string]any)["name"])

	resp, _ = srv.do(t, http.MethodPut, "/api/workouts/999", coachToken, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp, _ = srv.do(t, http.MethodDelete, fmt.Sprintf("/api/workouts/%d", workoutID), coachToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp, _ = srv.do(t, http.MethodGet, "/api/not_a_table", coachToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp, env = srv.do(t, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	for _, row := range env["data"].([]any) {
		assert.NotContains(t, row.(map[string]any), "password")
	}
}

func TestMeProfileAndLogout(t *testing.T) {
	srv := newTestServer(t, "dev")

	resp, env := srv.do(t, http.MethodPost, "/auth/register", "", map[string]any{"email": "me@fusion.test", "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	token := tokenOf(t, env)

	resp, env = srv.do(t, http.MethodPut, "/profile", token, map[string]any{"full_name": "Me Myself", "phone": "555-0100"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp, env = srv.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	me := dataMap(t, env)
	assert.Equal(t, "me@fusion.test", me["email"])

	resp, _ = srv.do(t, http.MethodPut, "/profile", token, map[string]any{"password": "hijack"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp, _ = srv.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp, _ = srv.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRevocationStoreOutageIsDependencyError(t *testing.T) {
	srv := newTestServer(t, "dev")

	resp, env := srv.do(t, http.MethodPost, "/auth/register", "", map[string]any{"email": "out@fusion.test", "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.Code)
	token := tokenOf(t, env)

	srv.revocations.err = errors.New("redis down")
	resp, _ = srv.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestMetricsEndpointExportsRouteCounters(t *testing.T) {
	srv := newTestServer(t, "dev")

	srv.do(t, http.MethodGet, "/health/live", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	srv.handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `http_requests_total{method="GET",route="/health/live",status="200"} 1`)
}
