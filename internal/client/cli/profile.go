package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
)

// EditProfile shows the profile and lets the user change the display name
// and bio. Empty answers keep the current value.
func (a *App) EditProfile(ctx context.Context) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}

	p, err := a.svc.Profile.Get(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (@%s)\n%s\n", p.Name(), p.Username, p.Bio)

	var upd api.ProfileUpdate
	name, err := getSimpleText(a.reader, "New display name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		upd.DisplayName = &name
	}
	bio, err := getSimpleText(a.reader, "New bio (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if bio != "" {
		upd.Bio = &bio
	}
	if upd == (api.ProfileUpdate{}) {
		return nil
	}

	p, err = a.svc.Profile.Update(ctx, upd)
	if err != nil {
		return err
	}
	a.setUser(p.Name())
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

// Dashboard is the admin landing page.
func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.enter(ctx, a.admin)
	if err != nil {
		return err
	}

	p, err := a.svc.Profile.Get(ctx)
	if err != nil {
		return err
	}
	unread, err := a.svc.Notifications.Unread(ctx)
	if err != nil {
		return err
	}
	communities, err := a.svc.Communities.Mine(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Dashboard for %s (%s)\n", p.Name(), d.Role)
	fmt.Fprintf(a.out, "  posts:         %d\n", p.PostsCount)
	fmt.Fprintf(a.out, "  followers:     %d\n", p.FollowersCount)
	fmt.Fprintf(a.out, "  communities:   %d\n", len(communities))
	fmt.Fprintf(a.out, "  unread alerts: %d\n", unread)
	return nil
}
