package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
)

func (a *App) Communities(ctx context.Context) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	list, err := a.svc.Communities.Mine(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "You are not a member of any community.")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "[%s] %s (%s, %d members)\n", c.ID, c.Name, c.Visibility, c.MembersCount)
	}
	return nil
}

func (a *App) NewCommunity(ctx context.Context) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Community name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	visibility, err := getSimpleText(a.reader, "Visibility: public, restricted or private (default public)", a.out)
	if err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, "Tags, comma separated (optional)", a.out)
	if err != nil {
		return err
	}

	c, err := a.svc.Communities.Create(ctx, api.NewCommunity{
		Name:        name,
		Description: description,
		Visibility:  visibility,
		Tags:        splitList(tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Community %s created (%s).\n", c.Name, c.ID)
	return nil
}
