package api

import (
	"context"
	"net/http"
)

func (c *Client) SendOTP(ctx context.Context, email string) (MessageResponse, error) {
	r, err := formRequest(http.MethodPost, "/auth/send-otp/", newForm().set("email", email))
	if err != nil {
		return MessageResponse{}, err
	}
	r.public = true

	var out MessageResponse
	err = c.do(ctx, r, &out)
	return out, err
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (MessageResponse, error) {
	r, err := formRequest(http.MethodPost, "/auth/verify-otp/", newForm().set("email", email).set("code", code))
	if err != nil {
		return MessageResponse{}, err
	}
	r.public = true

	var out MessageResponse
	err = c.do(ctx, r, &out)
	return out, err
}

func (c *Client) SetCredentials(ctx context.Context, email, username, password string) (MessageResponse, error) {
	f := newForm().set("email", email).set("username", username).set("password", password)
	r, err := formRequest(http.MethodPost, "/auth/set-credentials/", f)
	if err != nil {
		return MessageResponse{}, err
	}
	r.public = true

	var out MessageResponse
	err = c.do(ctx, r, &out)
	return out, err
}

// Login does not store the returned tokens; that is the caller's choice
// of tier.
func (c *Client) Login(ctx context.Context, emailOrUsername, password string) (LoginResponse, error) {
	f := newForm().set("email_or_username", emailOrUsername).set("password", password)
	r, err := formRequest(http.MethodPost, "/auth/login/", f)
	if err != nil {
		return LoginResponse{}, err
	}
	r.public = true

	var out LoginResponse
	err = c.do(ctx, r, &out)
	return out, err
}

// RefreshToken exchanges refresh for a new pair. It never goes through
// the refreshing transport.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (TokenPair, error) {
	r, err := jsonRequest(http.MethodPost, "/auth/token/refresh/", map[string]string{"refresh": refresh})
	if err != nil {
		return TokenPair{}, err
	}
	r.public = true

	var out refreshResponse
	if err := c.do(ctx, r, &out); err != nil {
		return TokenPair{}, err
	}
	return out.pair(), nil
}

func (c *Client) CurrentProfile(ctx context.Context) (Profile, error) {
	var out Object[Profile]
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/user-profiles/me/"}, &out)
	return out.Value, err
}

func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (Profile, error) {
	r, err := jsonRequest(http.MethodPatch, "/auth/user-profiles/me/", upd)
	if err != nil {
		return Profile{}, err
	}

	var out Object[Profile]
	err = c.do(ctx, r, &out)
	return out.Value, err
}
