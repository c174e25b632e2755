package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/client/storage/memory"
	"github.com/stretchr/testify/require"
)

type harness struct {
	client  *Client
	manager *session.Manager
	durable *memory.Store
	session *memory.Store
	server  *httptest.Server
}

func newHarness(t *testing.T, h http.Handler) *harness {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	durable, sess := memory.New(), memory.New()
	m := session.NewManager(durable, sess, nil)

	cfg := DefaultBreakerConfig(t.Name())
	cfg.MinRequests = 1000 // never trips unless a test asks for it

	c, err := New(srv.URL, m, Options{Timeout: 5 * time.Second, Breaker: cfg})
	require.NoError(t, err)

	return &harness{client: c, manager: m, durable: durable, session: sess, server: srv}
}

func (h *harness) login(t *testing.T, access, refresh string, tier session.Tier) {
	t.Helper()
	require.NoError(t, h.manager.StoreTokens(context.Background(), session.Tokens{
		AccessToken: access, RefreshToken: refresh, Tier: tier,
	}))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
