package api

import (
	"context"
	"net/http"
)

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out List[Notification]
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/notifications/"}, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id ID) (Notification, error) {
	r, err := jsonRequest(http.MethodPatch, "/api/notifications/"+id.String()+"/", map[string]bool{"is_read": true})
	if err != nil {
		return Notification{}, err
	}

	var out Object[Notification]
	err = c.do(ctx, r, &out)
	return out.Value, err
}
