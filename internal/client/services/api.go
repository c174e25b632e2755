package services

import (
	"context"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/client/session"
)

// The interfaces below are the slices of *api.Client each service uses.

type AuthAPI interface {
	SendOTP(ctx context.Context, email string) (api.MessageResponse, error)
	VerifyOTP(ctx context.Context, email, code string) (api.MessageResponse, error)
	SetCredentials(ctx context.Context, email, username, password string) (api.MessageResponse, error)
	Login(ctx context.Context, emailOrUsername, password string) (api.LoginResponse, error)
	CurrentProfile(ctx context.Context) (api.Profile, error)
}

type FeedAPI interface {
	NewsFeed(ctx context.Context) ([]api.Post, error)
	MyPosts(ctx context.Context) ([]api.Post, error)
	CreatePost(ctx context.Context, p api.NewPost) (api.Post, error)
	Like(ctx context.Context, post api.ID) (api.Like, error)
	Unlike(ctx context.Context, like api.ID) error
	Comments(ctx context.Context, post api.ID) ([]api.Comment, error)
	CreateComment(ctx context.Context, in api.NewComment) (api.Comment, error)
	UpdateComment(ctx context.Context, id api.ID, content string) (api.Comment, error)
	DeleteComment(ctx context.Context, id api.ID) error
}

type CommunityAPI interface {
	CreateCommunity(ctx context.Context, in api.NewCommunity) (api.Community, error)
	MyCommunities(ctx context.Context) ([]api.Community, error)
	UpdateCommunity(ctx context.Context, id api.ID, upd api.CommunityUpdate) (api.Community, error)
}

type NotificationAPI interface {
	Notifications(ctx context.Context) ([]api.Notification, error)
	MarkNotificationRead(ctx context.Context, id api.ID) (api.Notification, error)
}

type ProfileAPI interface {
	CurrentProfile(ctx context.Context) (api.Profile, error)
	UpdateProfile(ctx context.Context, upd api.ProfileUpdate) (api.Profile, error)
}

// Tokens is the part of session.Manager the auth service uses.
type Tokens interface {
	AccessToken(ctx context.Context) (string, bool)
	StoreTokens(ctx context.Context, t session.Tokens) error
	Clear(ctx context.Context) error
	RoleFromToken(ctx context.Context, token string) (string, bool)
}
