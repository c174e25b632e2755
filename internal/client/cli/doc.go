// Package cli provides the interactive HexSocial command-line client.
//
// It wires the application services, the session gate and an interactive
// REPL. Authenticated commands consult the gate first; a missing or expired
// session sends the user back to login, and a role that may not open a
// command (dashboard is admin only) is told where to go instead.
//
// Background watchers report when the access token expires and when the
// session is ended from another terminal sharing the durable store.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
