package guard

import (
	"context"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/session"
)

// WatchExpiry logs the session out when the stored access token's exp
// passes: it clears the tokens and calls onExpire. Tokens that are already
// expired trigger at once. Storage changes re-arm the timer, so a refresh
// or a new login is picked up. It blocks until ctx is done.
func (g *Guard) WatchExpiry(ctx context.Context, onExpire func()) {
	events := g.session.Subscribe(ctx)

	// handled is the token already expired, so a failed Clear does not
	// fire again for the same token.
	var handled string

	for {
		var fire <-chan time.Time
		var timer *time.Timer

		token, exp, ok := g.expiry(ctx)
		if ok && token != handled {
			wait := exp.Sub(g.opts.Now())
			if wait <= 0 {
				g.expire(ctx, onExpire)
				handled = token
				continue
			}
			timer = time.NewTimer(wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			stop(timer)
			return
		case _, ok := <-events:
			stop(timer)
			if !ok {
				return
			}
		case <-fire:
			g.expire(ctx, onExpire)
			handled = token
		}
	}
}

// expiry returns the stored access token and its exp, if it has one.
func (g *Guard) expiry(ctx context.Context) (string, time.Time, bool) {
	token, ok := g.session.AccessToken(ctx)
	if !ok {
		return "", time.Time{}, false
	}
	claims, err := session.ParseClaims(token)
	if err != nil || claims.ExpiresAt.IsZero() {
		return "", time.Time{}, false
	}
	return token, claims.ExpiresAt, true
}

func (g *Guard) expire(ctx context.Context, onExpire func()) {
	if err := g.session.Clear(ctx); err != nil {
		g.log.Error(ctx, "failed to clear expired tokens", "error", err)
	}
	g.log.Info(ctx, "session expired, logged out")
	if onExpire != nil {
		onExpire()
	}
}

func stop(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
