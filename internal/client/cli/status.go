package cli

import (
	"context"
	"fmt"
	"strings"
)

// status is the prompt annotation: user name and persistence tier.
func (a *App) status(ctx context.Context) string {
	var parts []string
	if u := a.user(); u != "" {
		parts = append(parts, u)
	}
	if a.loggedIn(ctx) {
		parts = append(parts, a.session.Persistence(ctx).String())
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}
