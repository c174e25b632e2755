package api

import (
	"context"
	"net/http"
)

// CreateCommunity applies the NewCommunity defaults for the first post.
func (c *Client) CreateCommunity(ctx context.Context, in NewCommunity) (Community, error) {
	title := in.Title
	if title == "" {
		title = in.Name
	}
	content := in.Content
	if content == "" {
		content = in.Description
	}
	postType := in.PostType
	if postType == "" {
		postType = PostTypeText
	}

	f := newForm().
		set("name", in.Name).
		set("description", in.Description).
		set("visibility", in.Visibility).
		set("title", title).
		set("content", content).
		set("post_type", postType).
		add("tags", in.Tags)

	r, err := formRequest(http.MethodPost, "/api/communities/", f)
	if err != nil {
		return Community{}, err
	}

	var out Object[Community]
	err = c.do(ctx, r, &out)
	return out.Value, err
}

func (c *Client) MyCommunities(ctx context.Context) ([]Community, error) {
	var out List[Community]
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/communities/my_communities/"}, &out)
	return out, err
}

func (c *Client) UpdateCommunity(ctx context.Context, id ID, upd CommunityUpdate) (Community, error) {
	r, err := jsonRequest(http.MethodPatch, "/api/communities/"+id.String()+"/", upd)
	if err != nil {
		return Community{}, err
	}

	var out Object[Community]
	err = c.do(ctx, r, &out)
	return out.Value, err
}
