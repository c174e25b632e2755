package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
	"golang.org/x/sync/singleflight"
)

// TokenStore is the part of session.Manager the transport depends on.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, bool)
	RefreshToken(ctx context.Context) (string, bool)
	StoreTokens(ctx context.Context, t session.Tokens) error
	Clear(ctx context.Context) error
}

// RefreshFunc exchanges a refresh token for a new pair. An empty Refresh
// in the result means the server did not rotate it.
type RefreshFunc func(ctx context.Context, refreshToken string) (TokenPair, error)

// DefaultRefreshTimeout bounds a shared refresh call. It is detached from
// the triggering request so one caller giving up does not fail the others
// waiting on the same refresh.
const DefaultRefreshTimeout = 30 * time.Second

var errNoRefreshToken = errors.New("no refresh token stored")

// attemptState is the per-request position in the refresh-on-401 cycle.
// It only moves forward, so a request is sent at most twice.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateRefreshing
	stateRetried
)

func (s attemptState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateRefreshing:
		return "refreshing"
	case stateRetried:
		return "retried"
	default:
		return "unknown"
	}
}

// AuthTransport attaches the stored access token and, on a 401, refreshes
// the pair once and resends the request once with the new token.
//
// Requests that 401 with the same access token share a single refresh
// call. A request whose token was already replaced by a concurrent
// refresh is retried with the replacement without refreshing again.
type AuthTransport struct {
	next           http.RoundTripper
	tokens         TokenStore
	refresh        RefreshFunc
	log            logging.Logger
	refreshTimeout time.Duration
	group          singleflight.Group
}

func NewAuthTransport(next http.RoundTripper, tokens TokenStore, refresh RefreshFunc, log logging.Logger) *AuthTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if log == nil {
		log = logging.Discard()
	}
	return &AuthTransport{
		next:           next,
		tokens:         tokens,
		refresh:        refresh,
		log:            log,
		refreshTimeout: DefaultRefreshTimeout,
	}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	access, _ := t.tokens.AccessToken(ctx)

	state := stateAttempting
	body := req.Body
	var unauthorized *http.Response

	for {
		switch state {
		case stateAttempting:
			resp, err := t.send(req, access, body)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}
			unauthorized = resp
			state = stateRefreshing

		case stateRefreshing:
			renewed, err := t.renew(ctx, access)
			if err != nil && ctx.Err() != nil {
				drain(unauthorized)
				return nil, ctx.Err()
			}
			if err != nil {
				t.log.Info(ctx, "session could not be renewed", "path", req.URL.Path, "error", err)
				return unauthorized, nil
			}

			body, err = replayBody(req)
			if err != nil {
				t.log.Warn(ctx, "request body cannot be replayed, returning 401", "path", req.URL.Path, "error", err)
				return unauthorized, nil
			}

			drain(unauthorized)
			access = renewed
			state = stateRetried

		case stateRetried:
			// The retry's outcome is final, including another 401.
			return t.send(req, access, body)

		default:
			return nil, fmt.Errorf("auth transport: unexpected state %s", state)
		}
	}
}

// renew returns an access token newer than stale, refreshing if needed.
// On failure the stored tokens are cleared. A caller whose ctx ends stops
// waiting, while the shared refresh carries on for the others.
func (t *AuthTransport) renew(ctx context.Context, stale string) (string, error) {
	shared := context.WithoutCancel(ctx)
	ch := t.group.DoChan(stale, func() (any, error) {
		return t.renewOnce(shared, stale)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (t *AuthTransport) renewOnce(ctx context.Context, stale string) (string, error) {
	if current, ok := t.tokens.AccessToken(ctx); ok && current != stale {
		tokenRefreshTotal.WithLabelValues(refreshReused).Inc()
		return current, nil
	}

	refreshToken, ok := t.tokens.RefreshToken(ctx)
	if !ok {
		tokenRefreshTotal.WithLabelValues(refreshNoRefreshToken).Inc()
		t.clear(ctx)
		return "", errNoRefreshToken
	}

	access, err := t.exchange(ctx, refreshToken)
	if err != nil {
		tokenRefreshTotal.WithLabelValues(refreshFailed).Inc()
		t.clear(ctx)
		return "", err
	}

	tokenRefreshTotal.WithLabelValues(refreshSucceeded).Inc()
	return access, nil
}

func (t *AuthTransport) exchange(ctx context.Context, refreshToken string) (string, error) {
	rctx, cancel := context.WithTimeout(ctx, t.refreshTimeout)
	defer cancel()

	pair, err := t.refresh(rctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if pair.Access == "" {
		return "", common.ErrNoAccessToken
	}
	if pair.Refresh == "" {
		pair.Refresh = refreshToken
	}

	if err := t.tokens.StoreTokens(rctx, session.Tokens{AccessToken: pair.Access, RefreshToken: pair.Refresh}); err != nil {
		return "", fmt.Errorf("store refreshed tokens: %w", err)
	}

	t.log.Debug(ctx, "access token refreshed", "rotated", pair.Refresh != refreshToken)
	return pair.Access, nil
}

func (t *AuthTransport) clear(ctx context.Context) {
	if err := t.tokens.Clear(ctx); err != nil {
		t.log.Error(ctx, "failed to clear tokens", "error", err)
	}
}

func (t *AuthTransport) send(req *http.Request, access string, body io.ReadCloser) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Body = body
	if access != "" {
		r.Header.Set(common.AuthorizationHeaderName, "Bearer "+access)
	} else {
		r.Header.Del(common.AuthorizationHeaderName)
	}
	return t.next.RoundTrip(r)
}

func replayBody(req *http.Request) (io.ReadCloser, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req.Body, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("no GetBody")
	}
	return req.GetBody()
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
