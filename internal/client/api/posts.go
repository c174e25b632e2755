package api

import (
	"context"
	"net/http"
)

func (c *Client) CreatePost(ctx context.Context, p NewPost) (Post, error) {
	f := newForm().set("title", p.Title)
	f.set("content", p.Content)
	f.setNonEmpty("link", p.Link)
	f.add("tags", p.Tags)
	f.set("post_type", p.PostType)

	r, err := formRequest(http.MethodPost, "/api/posts/", f)
	if err != nil {
		return Post{}, err
	}

	var out Object[Post]
	err = c.do(ctx, r, &out)
	return out.Value, err
}

func (c *Client) MyPosts(ctx context.Context) ([]Post, error) {
	var out List[Post]
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/posts/my_posts/"}, &out)
	return out, err
}

func (c *Client) NewsFeed(ctx context.Context) ([]Post, error) {
	var out List[Post]
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/posts/news_feed/"}, &out)
	return out, err
}

func (c *Client) Like(ctx context.Context, post ID) (Like, error) {
	r, err := jsonRequest(http.MethodPost, "/api/likes/", map[string]ID{"post": post})
	if err != nil {
		return Like{}, err
	}

	var out Object[Like]
	err = c.do(ctx, r, &out)
	return out.Value, err
}

func (c *Client) Unlike(ctx context.Context, like ID) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/likes/" + like.String() + "/"}, nil)
}
