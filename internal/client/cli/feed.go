package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
)

func (a *App) Feed(ctx context.Context, args []string) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	posts, err := a.svc.Feed.NewsFeed(ctx, wantsRefresh(args))
	if err != nil {
		return err
	}
	printPosts(a.out, posts)
	return nil
}

func (a *App) MyPosts(ctx context.Context, args []string) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	posts, err := a.svc.Feed.MyPosts(ctx, wantsRefresh(args))
	if err != nil {
		return err
	}
	printPosts(a.out, posts)
	return nil
}

func (a *App) NewPost(ctx context.Context) error {
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	link, err := getSimpleText(a.reader, "Link (optional)", a.out)
	if err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, "Tags, comma separated (optional)", a.out)
	if err != nil {
		return err
	}

	postType := api.PostTypeText
	if link != "" {
		postType = api.PostTypeLink
	}

	p, err := a.svc.Feed.CreatePost(ctx, api.NewPost{
		Title:    title,
		Content:  content,
		Link:     link,
		Tags:     splitList(tags),
		PostType: postType,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Post %s created.\n", p.ID)
	return nil
}

func (a *App) Like(ctx context.Context, args []string) error {
	id, err := idArg(args, "like <post id>")
	if err != nil {
		return err
	}
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	p, err := a.svc.Feed.Like(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Liked post %s (%d likes)\n", id, p.LikesCount)
	return nil
}

func (a *App) Unlike(ctx context.Context, args []string) error {
	id, err := idArg(args, "unlike <post id>")
	if err != nil {
		return err
	}
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	p, err := a.svc.Feed.Unlike(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Unliked post %s (%d likes)\n", id, p.LikesCount)
	return nil
}

func (a *App) Comments(ctx context.Context, args []string) error {
	id, err := idArg(args, "comments <post id>")
	if err != nil {
		return err
	}
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	comments, err := a.svc.Feed.Comments(ctx, id)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		fmt.Fprintln(a.out, "No comments yet.")
		return nil
	}
	for _, c := range comments {
		fmt.Fprintf(a.out, "[%s] %s: %s\n", c.ID, c.Author, c.Content)
	}
	return nil
}

func (a *App) Comment(ctx context.Context, args []string) error {
	id, err := idArg(args, "comment <post id>")
	if err != nil {
		return err
	}
	if _, err := a.enter(ctx, a.gate); err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	c, err := a.svc.Feed.Comment(ctx, api.NewComment{Post: id, Content: text})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment %s added.\n", c.ID)
	return nil
}

func printPosts(w io.Writer, posts []api.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "Nothing here yet.")
		return
	}
	for _, p := range posts {
		liked := " "
		if p.IsLiked {
			liked = "*"
		}
		fmt.Fprintf(w, "%s [%s] %s by %s  (%d likes, %d comments)\n",
			liked, p.ID, p.Title, p.Author, p.LikesCount, p.CommentsCount)
		if len(p.Tags) > 0 {
			fmt.Fprintf(w, "      #%s\n", strings.Join(p.Tags, " #"))
		}
	}
}

func wantsRefresh(args []string) bool {
	return len(args) > 0 && (args[0] == "refresh" || args[0] == "-r")
}

func idArg(args []string, text string) (api.ID, error) {
	if len(args) == 0 || args[0] == "" {
		return "", usage(text)
	}
	return api.ID(args[0]), nil
}
