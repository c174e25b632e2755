package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

const (
	newsFeedKey = "news_feed"
	myPostsKey  = "my_posts"
)

// FeedService reads posts through a TTL cache and applies like and
// comment changes to the cached posts before the API confirms them. A
// failed call undoes its patch.
type FeedService interface {
	NewsFeed(ctx context.Context, refresh bool) ([]api.Post, error)
	MyPosts(ctx context.Context, refresh bool) ([]api.Post, error)
	CreatePost(ctx context.Context, p api.NewPost) (api.Post, error)
	Like(ctx context.Context, post api.ID) (api.Post, error)
	Unlike(ctx context.Context, post api.ID) (api.Post, error)
	Comments(ctx context.Context, post api.ID) ([]api.Comment, error)
	Comment(ctx context.Context, in api.NewComment) (api.Comment, error)
	EditComment(ctx context.Context, id api.ID, content string) (api.Comment, error)
	DeleteComment(ctx context.Context, post, id api.ID) error

	// Reset forgets every cached post. Call it whenever the signed-in
	// account changes.
	Reset()
}

type feedService struct {
	api   FeedAPI
	posts *listCache[api.Post]
	log   logging.Logger
}

func NewFeedService(client FeedAPI, ttl time.Duration, log logging.Logger) FeedService {
	if log == nil {
		log = logging.Discard()
	}
	return &feedService{
		api:   client,
		posts: newListCache(ttl, func(p api.Post) string { return p.ID.String() }),
		log:   log,
	}
}

func (f *feedService) Reset() {
	f.posts.reset()
}

func (f *feedService) NewsFeed(ctx context.Context, refresh bool) ([]api.Post, error) {
	return f.list(ctx, newsFeedKey, refresh, f.api.NewsFeed)
}

func (f *feedService) MyPosts(ctx context.Context, refresh bool) ([]api.Post, error) {
	return f.list(ctx, myPostsKey, refresh, f.api.MyPosts)
}

func (f *feedService) list(ctx context.Context, key string, refresh bool, fetch func(context.Context) ([]api.Post, error)) ([]api.Post, error) {
	if !refresh {
		if posts, ok := f.posts.get(key); ok {
			return posts, nil
		}
	}
	gen := f.posts.generation()
	posts, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	f.posts.setSince(gen, key, posts)
	return posts, nil
}

func (f *feedService) CreatePost(ctx context.Context, p api.NewPost) (api.Post, error) {
	if err := validateInput(p); err != nil {
		return api.Post{}, err
	}
	post, err := f.api.CreatePost(ctx, p)
	if err != nil {
		return api.Post{}, fmt.Errorf("create post: %w", err)
	}
	f.posts.invalidate(newsFeedKey)
	f.posts.invalidate(myPostsKey)
	return post, nil
}

// Like marks post liked in every cached list, then confirms with the API.
func (f *feedService) Like(ctx context.Context, post api.ID) (api.Post, error) {
	current, ok := f.cached(post)
	if ok && current.IsLiked {
		return current, nil
	}

	_, undo := f.patchEverywhere(post, func(p *api.Post) {
		p.IsLiked = true
		p.LikesCount++
	})

	like, err := f.api.Like(ctx, post)
	if err != nil {
		undo()
		return api.Post{}, fmt.Errorf("like post %s: %w", post, err)
	}

	confirmed, _ := f.patchEverywhere(post, func(p *api.Post) { p.LikeID = like.ID })
	if confirmed.ID == "" {
		confirmed = api.Post{ID: post, IsLiked: true, LikeID: like.ID}
	}
	return confirmed, nil
}

// Unlike needs the like id, which only a cached post can provide.
func (f *feedService) Unlike(ctx context.Context, post api.ID) (api.Post, error) {
	current, ok := f.cached(post)
	if !ok {
		return api.Post{}, fmt.Errorf("post %s is not loaded: %w", post, common.ErrNotFound)
	}
	if !current.IsLiked || current.LikeID == "" {
		return current, nil
	}
	likeID := current.LikeID

	patched, undo := f.patchEverywhere(post, func(p *api.Post) {
		p.IsLiked = false
		p.LikeID = ""
		if p.LikesCount > 0 {
			p.LikesCount--
		}
	})

	if err := f.api.Unlike(ctx, likeID); err != nil {
		undo()
		return api.Post{}, fmt.Errorf("unlike post %s: %w", post, err)
	}
	return patched, nil
}

func (f *feedService) Comments(ctx context.Context, post api.ID) ([]api.Comment, error) {
	comments, err := f.api.Comments(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	return comments, nil
}

func (f *feedService) Comment(ctx context.Context, in api.NewComment) (api.Comment, error) {
	if err := validateInput(in); err != nil {
		return api.Comment{}, err
	}

	_, undo := f.patchEverywhere(in.Post, func(p *api.Post) { p.CommentsCount++ })

	c, err := f.api.CreateComment(ctx, in)
	if err != nil {
		undo()
		return api.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (f *feedService) EditComment(ctx context.Context, id api.ID, content string) (api.Comment, error) {
	if err := validateInput(struct {
		ID      api.ID `json:"id" validate:"required"`
		Content string `json:"content" validate:"required,max=5000"`
	}{id, content}); err != nil {
		return api.Comment{}, err
	}
	c, err := f.api.UpdateComment(ctx, id, content)
	if err != nil {
		return api.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

func (f *feedService) DeleteComment(ctx context.Context, post, id api.ID) error {
	_, undo := f.patchEverywhere(post, func(p *api.Post) {
		if p.CommentsCount > 0 {
			p.CommentsCount--
		}
	})

	if err := f.api.DeleteComment(ctx, id); err != nil {
		undo()
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (f *feedService) cached(post api.ID) (api.Post, bool) {
	for _, key := range []string{newsFeedKey, myPostsKey} {
		if p, ok := f.posts.find(key, post.String()); ok {
			return p, true
		}
	}
	return api.Post{}, false
}

// patchEverywhere applies fn to post in each cached list. The returned
// post is the first patched copy, zero if the post is not cached.
func (f *feedService) patchEverywhere(post api.ID, fn func(*api.Post)) (api.Post, func()) {
	var first api.Post
	var undos []func()

	for _, key := range []string{newsFeedKey, myPostsKey} {
		patched, undo, ok := f.posts.patch(key, post.String(), fn)
		if !ok {
			continue
		}
		if first.ID == "" {
			first = patched
		}
		undos = append(undos, undo)
	}

	return first, func() {
		for _, u := range undos {
			u()
		}
	}
}
