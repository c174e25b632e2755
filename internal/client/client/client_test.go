package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/hexsocial/internal/client/config"
	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/client/session/sessiontest"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = apiURL
	cfg.DataDir = t.TempDir()
	cfg.WatchInterval = 10 * time.Millisecond
	return cfg
}

func newClient(t *testing.T, cfg *config.Config, input string) *Client {
	t.Helper()
	c, err := New(context.Background(), cfg, Options{
		In:        strings.NewReader(input),
		Out:       io.Discard,
		LogOutput: io.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_SQLiteDurableTier(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000")
	ctx := context.Background()

	first := newClient(t, cfg, "")
	require.NotNil(t, first.durable)
	require.NoError(t, first.Session.StoreTokens(ctx, session.Tokens{AccessToken: "a", RefreshToken: "r", Tier: session.TierDurable}))

	second := newClient(t, cfg, "")
	access, ok := second.Session.AccessToken(ctx)
	require.True(t, ok, "a remembered session is visible to the next process")
	assert.Equal(t, "a", access)
	assert.Equal(t, session.TierDurable, second.Session.Persistence(ctx))
}

func TestNew_RedisDurableTier(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, "http://localhost:8000")
	cfg.DurableBackend = config.BackendRedis
	cfg.RedisAddr = mr.Addr()

	c := newClient(t, cfg, "")
	require.NoError(t, c.Session.StoreTokens(context.Background(), session.Tokens{AccessToken: "a", Tier: session.TierDurable}))

	v, err := mr.Get("hexsocial:session:" + common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestNew_UnreachableDurableFallsBackToSession(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t, "http://localhost:8000")
	cfg.DurableBackend = config.BackendRedis
	cfg.RedisAddr = addr

	c := newClient(t, cfg, "")
	assert.Nil(t, c.durable)
	assert.Equal(t, session.TierSession, c.Session.Persistence(context.Background()))

	err := c.Session.StoreTokens(context.Background(), session.Tokens{AccessToken: "a", Tier: session.TierDurable})
	require.ErrorIs(t, err, common.ErrTierUnavailable)
}

func TestNew_BadBaseURL(t *testing.T) {
	cfg := testConfig(t, "ftp://example.com")
	_, err := New(context.Background(), cfg, Options{LogOutput: io.Discard})
	require.ErrorContains(t, err, "api client")
}

func TestRun_LoginRememberedAcrossProcesses(t *testing.T) {
	access := sessiontest.AccessToken(t, common.RoleUser, time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/" {
			http.NotFound(w, r)
			return
		}
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "alice", r.FormValue("email_or_username"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"tokens":  map[string]string{"access": access, "refresh": "r1"},
			"user":    map[string]any{"id": 1, "username": "alice", "role": "user"},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	var out bytes.Buffer
	c, err := New(ctx, cfg, Options{
		In:        strings.NewReader("login\nalice\npassword1\ny\nexit\n"),
		Out:       &syncWriter{w: &out},
		LogOutput: io.Discard,
	})
	require.NoError(t, err)
	c.Run(ctx)
	require.NoError(t, c.Close())

	next := newClient(t, cfg, "")
	got, ok := next.Session.AccessToken(ctx)
	require.True(t, ok)
	assert.Equal(t, access, got)
	refresh, _ := next.Session.RefreshToken(ctx)
	assert.Equal(t, "r1", refresh)
}

func TestServe_ExposesMetrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
