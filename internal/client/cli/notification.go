package cli

import (
	"context"
	"fmt"
)

func (a *App) Notifications(ctx context.Context, args []string) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	list, err := a.svc.Notifications.List(ctx, wantsRefresh(args))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notifications.")
		return nil
	}
	for _, n := range list {
		mark := "*"
		if n.IsRead {
			mark = " "
		}
		fmt.Fprintf(a.out, "%s [%s] %s from %s", mark, n.ID, n.Type, n.SenderName)
		if n.PostTitle != "" {
			fmt.Fprintf(a.out, " on %q", n.PostTitle)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *App) Read(ctx context.Context, args []string) error {
	id, err := idArg(args, "read <notification id>")
	if err != nil {
		return err
	}
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	return a.svc.Notifications.MarkRead(ctx, id)
}
