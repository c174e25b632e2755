package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/guard"
	"github.com/dmitrijs2005/hexsocial/internal/client/services"
	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

// Services bundles the application services the commands use.
type Services struct {
	Auth          services.AuthService
	Feed          services.FeedService
	Communities   services.CommunityService
	Notifications services.NotificationService
	Profile       services.ProfileService
}

// Session is the stored session as seen by the CLI: the gate's view plus
// the tier it is persisted in.
type Session interface {
	guard.Session
	Persistence(ctx context.Context) session.Tier
}

type Options struct {
	In     io.Reader
	Out    io.Writer
	Logger logging.Logger

	// Now is the clock used by the session gate.
	Now func() time.Time
}

type App struct {
	svc     Services
	session Session
	gate    *guard.Guard // any authenticated role
	admin   *guard.Guard // admin only
	reader  *bufio.Reader
	termFD  int
	out     io.Writer
	log     logging.Logger

	mu       sync.Mutex
	userName string
}

func NewApp(svc Services, sess Session, opts Options) *App {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &App{
		svc:     svc,
		session: sess,
		gate:    guard.New(sess, guard.Options{Now: opts.Now, Logger: opts.Logger}),
		admin: guard.New(sess, guard.Options{
			AllowedRoles: []string{common.RoleAdmin},
			Now:          opts.Now,
			Logger:       opts.Logger,
		}),
		reader: bufio.NewReader(opts.In),
		termFD: terminalFD(opts.In),
		out:    opts.Out,
		log:    opts.Logger,
	}
}

// Run starts the session watchers and the REPL. It returns when the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to HexSocial CLI (type 'help' for commands)")

	go a.gate.WatchExpiry(ctx, func() {
		a.signedOut()
		fmt.Fprintln(a.out, "\nYour session has expired. Please log in again.")
	})
	go a.watchSession(ctx)

	runREPL(ctx, a, a.status, a.reader, a.out)
}

// watchSession reports sessions that end outside this process, such as a
// logout in another terminal sharing the durable store.
func (a *App) watchSession(ctx context.Context) {
	first := true
	var last guard.Decision

	for d := range a.gate.Watch(ctx) {
		switch {
		case first && d.Authorized():
			fmt.Fprintf(a.out, "Resuming %s session (%s)\n", a.session.Persistence(ctx), d.Role)
		case !first && last.Authorized() && !d.Authorized():
			a.signedOut()
			fmt.Fprintf(a.out, "\nSigned out: %s.\n", d.Reason)
		}
		first = false
		last = d
	}
}

// enter consults g before an authenticated command.
func (a *App) enter(ctx context.Context, g *guard.Guard) (guard.Decision, error) {
	d := g.Evaluate(ctx)
	if !d.Authorized() {
		if d.Redirect == common.LoginPath {
			a.signedOut()
		}
		return d, &accessError{decision: d}
	}
	return d, nil
}

func (a *App) loggedIn(ctx context.Context) bool {
	_, ok := a.session.AccessToken(ctx)
	return ok
}

// signedOut forgets everything tied to the account that just left.
func (a *App) signedOut() {
	a.setUser("")
	a.resetCaches()
}

// resetCaches drops cached lists so the next account never sees the
// previous one's posts, likes or notifications.
func (a *App) resetCaches() {
	if a.svc.Feed != nil {
		a.svc.Feed.Reset()
	}
	if a.svc.Notifications != nil {
		a.svc.Notifications.Reset()
	}
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) user() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

// accessError is returned when the session gate turns a command away.
type accessError struct {
	decision guard.Decision
}

func (e *accessError) Error() string {
	if e.decision.Redirect == common.LoginPath {
		return fmt.Sprintf("%s, please log in", e.decision.Reason)
	}
	return fmt.Sprintf("%s (%s), go to %s", e.decision.Reason, e.decision.Role, e.decision.Redirect)
}

func (e *accessError) Unwrap() error {
	if e.decision.Redirect == common.LoginPath {
		return common.ErrUnauthorized
	}
	return common.ErrForbidden
}
