package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Comments(ctx context.Context, post ID) ([]Comment, error) {
	r := request{method: http.MethodGet, path: "/api/comments/", query: url.Values{"post": {post.String()}}}

	var out List[Comment]
	err := c.do(ctx, r, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, in NewComment) (Comment, error) {
	r, err := jsonRequest(http.MethodPost, "/api/comments/", in)
	if err != nil {
		return Comment{}, err
	}

	var out Object[Comment]
	err = c.do(ctx, r, &out)
	return out.Value, err
}

func (c *Client) UpdateComment(ctx context.Context, id ID, content string) (Comment, error) {
	r, err := jsonRequest(http.MethodPatch, "/api/comments/"+id.String()+"/", map[string]string{"content": content})
	if err != nil {
		return Comment{}, err
	}

	var out Object[Comment]
	err = c.do(ctx, r, &out)
	return out.Value, err
}

func (c *Client) DeleteComment(ctx context.Context, id ID) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/comments/" + id.String() + "/"}, nil)
}
