// Package guard is the session gate consulted before authenticated
// commands. It decides whether the stored session may proceed and, if not,
// where the user should be sent instead.
package guard

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

type State int

const (
	Bootstrapping State = iota
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Reasons attached to Unauthorized decisions.
const (
	ReasonNoToken        = "no access token"
	ReasonMalformedToken = "malformed access token"
	ReasonExpired        = "access token expired"
	ReasonRoleNotAllowed = "role not allowed"
)

type Decision struct {
	State    State
	Role     string
	Redirect string // empty unless Unauthorized
	Reason   string
}

func (d Decision) Authorized() bool {
	return d.State == Authorized
}

// Session is the part of session.Manager the guard depends on.
type Session interface {
	AccessToken(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
	Subscribe(ctx context.Context) <-chan struct{}
}

type Options struct {
	// AllowedRoles lists the roles that may pass. Empty lets any
	// authenticated role through.
	AllowedRoles []string

	// FallbackRedirect is where a disallowed role is sent. Empty means
	// /dashboard for admins and / for everyone else.
	FallbackRedirect string

	Now    func() time.Time
	Logger logging.Logger
}

type Guard struct {
	session Session
	opts    Options
	log     logging.Logger
}

func New(s Session, opts Options) *Guard {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Guard{session: s, opts: opts, log: log}
}

// Evaluate decides on the current stored session. Missing, malformed and
// expired tokens clear the session and redirect to login.
func (g *Guard) Evaluate(ctx context.Context) Decision {
	token, ok := g.session.AccessToken(ctx)
	if !ok {
		return g.deny(ctx, ReasonNoToken)
	}

	claims, err := session.ParseClaims(token)
	if err != nil {
		g.log.Warn(ctx, "failed to decode access token", "error", err)
		return g.deny(ctx, ReasonMalformedToken)
	}
	if err := claims.Validate(g.opts.Now()); err != nil {
		g.log.Info(ctx, "access token rejected", "error", err)
		return g.deny(ctx, ReasonExpired)
	}

	role := claims.Role
	if role == "" {
		role = common.RoleUser
	}

	if len(g.opts.AllowedRoles) > 0 && !slices.Contains(g.opts.AllowedRoles, role) {
		return Decision{
			State:    Unauthorized,
			Role:     role,
			Redirect: g.fallback(role),
			Reason:   ReasonRoleNotAllowed,
		}
	}

	return Decision{State: Authorized, Role: role}
}

func (g *Guard) deny(ctx context.Context, reason string) Decision {
	if err := g.session.Clear(ctx); err != nil {
		g.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	g.log.Debug(ctx, "session rejected", "reason", reason)
	return Decision{State: Unauthorized, Redirect: common.LoginPath, Reason: reason}
}

func (g *Guard) fallback(role string) string {
	if g.opts.FallbackRedirect != "" {
		return g.opts.FallbackRedirect
	}
	if role == common.RoleAdmin {
		return common.DashboardPath
	}
	return common.HomePath
}

// Watch emits the initial decision and then a new one whenever a storage
// change alters the outcome, such as a logout from another process. The
// channel is closed when ctx is done.
func (g *Guard) Watch(ctx context.Context) <-chan Decision {
	events := g.session.Subscribe(ctx)
	out := make(chan Decision)

	go func() {
		defer close(out)

		last := g.Evaluate(ctx)
		if !send(ctx, out, last) {
			return
		}

		for range events {
			d := g.Evaluate(ctx)
			if d == last {
				continue
			}
			last = d
			if !send(ctx, out, d) {
				return
			}
		}
	}()

	return out
}

func send(ctx context.Context, out chan<- Decision, d Decision) bool {
	select {
	case out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}
