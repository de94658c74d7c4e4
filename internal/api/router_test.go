package api

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/webthree/internal/handler"
	"github.com/AlexZinkM/webthree/internal/metrics"
	"github.com/AlexZinkM/webthree/wallet"
)

type localProvider struct {
	wallet.Emitter
}

func (*localProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	return []string{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"}, nil
}

func (*localProvider) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	return big.NewInt(1_000_000_000_000_000_000), nil
}

func (*localProvider) GetChainID(ctx context.Context) (int64, error) {
	return 31337, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>webthree</h1>"), 0o644))

	reg := prometheus.NewRegistry()
	c := wallet.NewController(&localProvider{}, wallet.WithRecorder(metrics.New(reg)))
	c.Mount()
	t.Cleanup(c.Close)

	router, err := SetupRouter(handler.NewSessionHandler(c, nil, "", nil), static, reg)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRouter_StaticFiles(t *testing.T) {
	srv := newTestServer(t)

	status, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<h1>webthree</h1>")

	status, _ = get(t, srv.URL+"/missing.js")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_SessionAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/session/connect", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := get(t, srv.URL+"/api/session")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"connected":true`)
	assert.Contains(t, body, `"balance":"1"`)

	status, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(body, `webthree_wallet_connect_total{outcome="connected"} 1`), body)

	status, body = get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestRouter_Swagger(t *testing.T) {
	srv := newTestServer(t)

	status, body := get(t, srv.URL+"/swagger/doc.json")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/api/session/connect")
}

func TestSetupRouter_MissingStaticDir(t *testing.T) {
	c := wallet.NewController(nil)
	t.Cleanup(c.Close)

	_, err := SetupRouter(handler.NewSessionHandler(c, nil, "", nil), filepath.Join(t.TempDir(), "nope"), prometheus.NewRegistry())
	assert.Error(t, err)
}
