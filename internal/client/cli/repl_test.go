package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/hexsocial/internal/client/guard"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	signedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) loggedIn(context.Context) bool { return f.signedIn }
func (f *fakeExec) Register(context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(context.Context) error {
	f.signedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.signedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami", nil) }
func (f *fakeExec) Feed(_ context.Context, args []string) error {
	return f.record("feed", args)
}
func (f *fakeExec) MyPosts(_ context.Context, args []string) error {
	return f.record("mine", args)
}
func (f *fakeExec) NewPost(context.Context) error { return f.record("post", nil) }
func (f *fakeExec) Like(_ context.Context, args []string) error {
	return f.record("like", args)
}
func (f *fakeExec) Unlike(_ context.Context, args []string) error {
	return f.record("unlike", args)
}
func (f *fakeExec) Comments(_ context.Context, args []string) error {
	return f.record("comments", args)
}
func (f *fakeExec) Comment(_ context.Context, args []string) error {
	return f.record("comment", args)
}
func (f *fakeExec) Communities(context.Context) error  { return f.record("communities", nil) }
func (f *fakeExec) NewCommunity(context.Context) error { return f.record("newcommunity", nil) }
func (f *fakeExec) Notifications(_ context.Context, args []string) error {
	return f.record("notifications", args)
}
func (f *fakeExec) Read(_ context.Context, args []string) error {
	return f.record("read", args)
}
func (f *fakeExec) EditProfile(context.Context) error { return f.record("profile", nil) }
func (f *fakeExec) Dashboard(context.Context) error   { return f.record("dashboard", nil) }

// runLines feeds lines to the REPL and returns what it printed, one entry
// per output line.
func runLines(exec execIface, lines ...string) []string {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	runREPL(context.Background(), exec, func(context.Context) string { return "status" }, r, &out)
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &fakeExec{}

	out := runLines(exec,
		"help",
		"login",
		"help",
		"",
		"feed refresh",
		"like 42",
		"comments 7",
		"n",
		"read 3",
		"dashboard",
		"foobar",
		"exit",
		"logout",
	)

	assert.Equal(t, []string{"login", "feed", "like", "comments", "notifications", "read", "dashboard"}, exec.calls)
	assert.Equal(t, []string{"refresh"}, exec.args[1])
	assert.Equal(t, []string{"42"}, exec.args[2])

	assert.Contains(t, out, helpGuest)
	assert.Contains(t, out, helpMember)
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
	assert.Contains(t, out, "hx status> ")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	exec := &fakeExec{}

	r := bufio.NewReader(strings.NewReader("whoami"))
	runREPL(context.Background(), exec, func(context.Context) string { return "" }, r, io.Discard)

	assert.Equal(t, []string{"whoami"}, exec.calls, "last line without newline still runs")
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "denied to login",
			err:  &accessError{decision: guard.Decision{State: guard.Unauthorized, Redirect: common.LoginPath, Reason: guard.ReasonExpired}},
			want: "Access denied: access token expired, please log in",
		},
		{
			name: "denied by role",
			err:  &accessError{decision: guard.Decision{State: guard.Unauthorized, Role: "user", Redirect: "/", Reason: guard.ReasonRoleNotAllowed}},
			want: "Access denied: role not allowed (user), go to /",
		},
		{
			name: "usage",
			err:  usage("like <post id>"),
			want: "Usage: like <post id>",
		},
		{
			name: "unauthorized from api",
			err:  fmt.Errorf("get news_feed: %w", common.ErrUnauthorized),
			want: "Not signed in or session expired, please log in.",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runLines(&fakeExec{err: tt.err}, "feed", "exit")
			assert.Contains(t, out, tt.want)
		})
	}
}
