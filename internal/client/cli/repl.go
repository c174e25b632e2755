package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/hexsocial/internal/common"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	loggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Feed(ctx context.Context, args []string) error
	MyPosts(ctx context.Context, args []string) error
	NewPost(ctx context.Context) error
	Like(ctx context.Context, args []string) error
	Unlike(ctx context.Context, args []string) error
	Comments(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	Communities(ctx context.Context) error
	NewCommunity(ctx context.Context) error
	Notifications(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error
	EditProfile(ctx context.Context) error
	Dashboard(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, exit"
	helpMember = "Available commands: feed [refresh], mine [refresh], post, like <id>, unlike <id>, " +
		"comments <id>, comment <id>, communities, newcommunity, notifications [refresh], read <id>, " +
		"whoami, profile, dashboard, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the HexSocial CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompts, help and errors returned by handlers go to out, the same writer
// the commands print to. Errors are reported on one line and the loop
// continues.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader, out io.Writer) {
	say := func(args ...any) { fmt.Fprintln(out, args...) }
	report := func(err error) { reportTo(out, err) }

	for {
		say(fmt.Sprintf("hx %s> ", statusFn(ctx)))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.loggedIn(ctx) {
				say(helpMember)
			} else {
				say(helpGuest)
			}

		case "register":
			report(a.Register(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))

		case "feed":
			report(a.Feed(ctx, args))
		case "mine":
			report(a.MyPosts(ctx, args))
		case "post":
			report(a.NewPost(ctx))
		case "like":
			report(a.Like(ctx, args))
		case "unlike":
			report(a.Unlike(ctx, args))
		case "comments":
			report(a.Comments(ctx, args))
		case "comment":
			report(a.Comment(ctx, args))

		case "communities":
			report(a.Communities(ctx))
		case "newcommunity":
			report(a.NewCommunity(ctx))

		case "notifications", "n":
			report(a.Notifications(ctx, args))
		case "read":
			report(a.Read(ctx, args))

		case "profile":
			report(a.EditProfile(ctx))
		case "dashboard":
			report(a.Dashboard(ctx))

		case "exit", "quit":
			say("Bye!")
			return

		default:
			say("Unknown command:", cmd)
		}
	}
}

// errUsage marks a command invoked with the wrong arguments.
var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

func reportTo(out io.Writer, err error) {
	if err == nil {
		return
	}

	var denied *accessError
	switch {
	case errors.As(err, &denied):
		fmt.Fprintln(out, "Access denied:", denied.Error())
	case errors.Is(err, errUsage):
		fmt.Fprintln(out, "Usage:", strings.TrimPrefix(err.Error(), "usage: "))
	case errors.Is(err, common.ErrUnauthorized):
		fmt.Fprintln(out, "Not signed in or session expired, please log in.")
	case errors.Is(err, common.ErrUnavailable):
		fmt.Fprintln(out, "Server unavailable, try again later:", err)
	default:
		fmt.Fprintln(out, "Error:", err)
	}
}
