package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/cpuschedsim/internal/config"
	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.RateLimit.Enabled = false
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	srv, err := NewServer(cfg, nil, nil, logger)
	require.NoError(t, err)
	return srv
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)
	router := srv.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateRunHandler(t *testing.T) {
	srv := newTestServer(t)
	router := srv.setupRouter()

	input := types.TaskInfo{
		SchedulingAlgo: types.FCFS,
		ReleaseTime:    []float64{0, 1},
		WCExecTime:     []float64{2, 2},
	}
	body, err := json.Marshal(input)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp runResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.SchedYes, resp.Info.Schedulability)
	assert.Len(t, resp.Trace, 2)
}

func TestProtectedRunsRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	router := srv.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueTokenAndAuthorize(t *testing.T) {
	srv := newTestServer(t)
	router := srv.setupRouter()

	body, err := json.Marshal(tokenRequest{ClientID: "student"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var tokenResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	req.Header.Set("Authorization", "Bearer "+tokenResp.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
