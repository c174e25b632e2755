package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/client/services"
	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/client/session/sessiontest"
	"github.com/dmitrijs2005/hexsocial/internal/client/storage/memory"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ fakes ------------

type fakeAuth struct {
	services.AuthService

	tb     testing.TB
	tokens *session.Manager
	role   string

	lastLogin services.LoginInput
	logouts   int
}

func (f *fakeAuth) Login(ctx context.Context, in services.LoginInput) (services.LoginResult, error) {
	f.lastLogin = in
	tier := session.TierFor(in.Remember)
	err := f.tokens.StoreTokens(ctx, session.Tokens{
		AccessToken:  sessiontest.AccessToken(f.tb, f.role, time.Hour),
		RefreshToken: "r",
		Tier:         tier,
	})
	return services.LoginResult{Role: f.role, Tier: tier, User: &api.User{Username: in.Login}}, err
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logouts++
	return f.tokens.Clear(ctx)
}

type fakeFeed struct {
	services.FeedService
	posts  []api.Post
	calls  int
	resets atomic.Int32
	liked []api.ID
}

func (f *fakeFeed) NewsFeed(context.Context, bool) ([]api.Post, error) {
	f.calls++
	return f.posts, nil
}

func (f *fakeFeed) Reset() { f.resets.Add(1) }

func (f *fakeFeed) Like(_ context.Context, id api.ID) (api.Post, error) {
	f.liked = append(f.liked, id)
	return api.Post{ID: id, IsLiked: true, LikesCount: 1}, nil
}

func (f *fakeFeed) CreatePost(_ context.Context, p api.NewPost) (api.Post, error) {
	return api.Post{ID: "77", Title: p.Title, PostType: p.PostType, Tags: p.Tags}, nil
}

type fakeProfile struct {
	services.ProfileService
	profile api.Profile
	updates []api.ProfileUpdate
}

func (f *fakeProfile) Get(context.Context) (api.Profile, error) { return f.profile, nil }

func (f *fakeProfile) Update(_ context.Context, upd api.ProfileUpdate) (api.Profile, error) {
	f.updates = append(f.updates, upd)
	if upd.DisplayName != nil {
		f.profile.DisplayName = *upd.DisplayName
	}
	return f.profile, nil
}

type fakeNotifications struct {
	services.NotificationService
	unread int
	resets atomic.Int32
}

func (f *fakeNotifications) Reset() { f.resets.Add(1) }

func (f *fakeNotifications) Unread(context.Context) (int, error) { return f.unread, nil }

type fakeCommunities struct {
	services.CommunityService
	created []api.NewCommunity
}

func (f *fakeCommunities) Mine(context.Context) ([]api.Community, error) {
	return []api.Community{{ID: "1", Name: "gophers"}}, nil
}

func (f *fakeCommunities) Create(_ context.Context, in api.NewCommunity) (api.Community, error) {
	f.created = append(f.created, in)
	return api.Community{ID: "2", Name: in.Name}, nil
}

// accountFeedAPI serves a different news feed per signed-in login.
type accountFeedAPI struct {
	services.FeedAPI
	auth  *fakeAuth
	feeds map[string][]api.Post
	calls int
}

func (f *accountFeedAPI) NewsFeed(context.Context) ([]api.Post, error) {
	f.calls++
	return f.feeds[f.auth.lastLogin.Login], nil
}

// syncBuffer is written by the REPL and the background watchers.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Reset()
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// ------------ helpers ------------

type testApp struct {
	*App
	out     *syncBuffer
	durable *memory.Store
	manager *session.Manager
	auth    *fakeAuth
	feed    *fakeFeed
	notes   *fakeNotifications
	profile *fakeProfile
	comms   *fakeCommunities
}

func newTestApp(t *testing.T, role string, input ...string) *testApp {
	t.Helper()

	durable := memory.New()
	m := session.NewManager(durable, memory.New(), nil)
	out := &syncBuffer{}

	ta := &testApp{
		out:     out,
		durable: durable,
		manager: m,
		auth:    &fakeAuth{tb: t, tokens: m, role: role},
		feed:    &fakeFeed{posts: []api.Post{{ID: "1", Title: "hello", Author: "bob", Tags: []string{"go"}}}},
		notes:   &fakeNotifications{unread: 2},
		profile: &fakeProfile{profile: api.Profile{Username: "alice", PostsCount: 3}},
		comms:   &fakeCommunities{},
	}
	ta.App = NewApp(Services{
		Auth:          ta.auth,
		Feed:          ta.feed,
		Communities:   ta.comms,
		Notifications: ta.notes,
		Profile:       ta.profile,
	}, m, Options{
		In:  strings.NewReader(strings.Join(input, "\n") + "\n"),
		Out: out,
	})
	return ta
}

func (ta *testApp) signIn(t *testing.T, role string, ttl time.Duration) {
	t.Helper()
	require.NoError(t, ta.manager.StoreTokens(context.Background(), session.Tokens{
		AccessToken: sessiontest.AccessToken(t, role, ttl),
		Tier:        session.TierDurable,
	}))
}

// ------------ tests ------------

func TestLogin_RememberedSession(t *testing.T) {
	ta := newTestApp(t, common.RoleUser, "alice", "pw", "y")
	ctx := context.Background()

	require.NoError(t, ta.Login(ctx))

	assert.Equal(t, services.LoginInput{Login: "alice", Password: "pw", Remember: true}, ta.auth.lastLogin)
	assert.Contains(t, ta.out.String(), "Logged in as alice (user, durable session)")
	assert.Equal(t, "(alice durable)", ta.status(ctx))

	require.NoError(t, ta.Logout(ctx))
	assert.Empty(t, ta.status(ctx))
}

func TestLogin_SecondAccountRefetchesFeed(t *testing.T) {
	ta := newTestApp(t, common.RoleUser, "alice", "pw", "n", "bob", "pw", "n")
	ctx := context.Background()

	feeds := &accountFeedAPI{auth: ta.auth, feeds: map[string][]api.Post{
		"alice": {{ID: "1", Title: "alice only", Author: "alice", IsLiked: true, LikeID: "9"}},
		"bob":   {{ID: "2", Title: "bob only", Author: "bob"}},
	}}
	ta.App.svc.Feed = services.NewFeedService(feeds, time.Minute, nil)

	require.NoError(t, ta.Login(ctx))
	require.NoError(t, ta.Feed(ctx, nil))
	require.NoError(t, ta.Feed(ctx, nil))
	assert.Equal(t, 1, feeds.calls, "second read is cached")

	require.NoError(t, ta.Logout(ctx))
	require.NoError(t, ta.Login(ctx))

	ta.out.Reset()
	require.NoError(t, ta.Feed(ctx, nil))
	assert.Equal(t, 2, feeds.calls)
	assert.Contains(t, ta.out.String(), "[2] bob only by bob")
	assert.NotContains(t, ta.out.String(), "alice only")
}

func TestLogout_ResetsCaches(t *testing.T) {
	ta := newTestApp(t, common.RoleUser)
	ta.signIn(t, common.RoleUser, time.Hour)

	require.NoError(t, ta.Logout(context.Background()))
	assert.Equal(t, int32(1), ta.feed.resets.Load())
	assert.Equal(t, int32(1), ta.notes.resets.Load())
}

func TestLogin_SessionOnly(t *testing.T) {
	ta := newTestApp(t, common.RoleUser, "alice", "pw", "n")
	require.NoError(t, ta.Login(context.Background()))

	assert.False(t, ta.auth.lastLogin.Remember)
	assert.Equal(t, "(alice session)", ta.status(context.Background()))
}

func TestAuthenticatedCommand_WithoutSession(t *testing.T) {
	ta := newTestApp(t, "")

	err := ta.Feed(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Zero(t, ta.feed.calls, "gate rejects before any request")
}

func TestAuthenticatedCommand_ExpiredSessionIsCleared(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t, common.RoleUser, -time.Minute)

	err := ta.Feed(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.ErrorContains(t, err, "access token expired")

	_, ok := ta.manager.AccessToken(context.Background())
	assert.False(t, ok)
}

func TestFeedAndLike(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t, common.RoleUser, time.Hour)
	ctx := context.Background()

	require.NoError(t, ta.Feed(ctx, []string{"refresh"}))
	assert.Contains(t, ta.out.String(), "[1] hello by bob")
	assert.Contains(t, ta.out.String(), "#go")

	require.ErrorIs(t, ta.Like(ctx, nil), errUsage)
	require.NoError(t, ta.Like(ctx, []string{"1"}))
	assert.Equal(t, []api.ID{"1"}, ta.feed.liked)
}

func TestNewPost_LinkSetsType(t *testing.T) {
	ta := newTestApp(t, "", "My link", "some text", "", "https://go.dev", "go, web")
	ta.signIn(t, common.RoleUser, time.Hour)

	require.NoError(t, ta.NewPost(context.Background()))
	assert.Contains(t, ta.out.String(), "Post 77 created.")
}

func TestDashboard_RoleGate(t *testing.T) {
	ctx := context.Background()

	t.Run("user is sent home", func(t *testing.T) {
		ta := newTestApp(t, "")
		ta.signIn(t, common.RoleUser, time.Hour)

		err := ta.Dashboard(ctx)
		require.ErrorIs(t, err, common.ErrForbidden)
		require.ErrorContains(t, err, "go to /")

		_, ok := ta.manager.AccessToken(ctx)
		assert.True(t, ok, "role mismatch keeps the session")
	})

	t.Run("admin passes", func(t *testing.T) {
		ta := newTestApp(t, "")
		ta.signIn(t, common.RoleAdmin, time.Hour)

		require.NoError(t, ta.Dashboard(ctx))
		out := ta.out.String()
		assert.Contains(t, out, "Dashboard for alice (admin)")
		assert.Contains(t, out, "unread alerts: 2")
		assert.Contains(t, out, "communities:   1")
	})
}

func TestNewCommunity(t *testing.T) {
	ta := newTestApp(t, "", "gophers", "all things Go", "", "go")
	ta.signIn(t, common.RoleUser, time.Hour)

	require.NoError(t, ta.NewCommunity(context.Background()))
	require.Len(t, ta.comms.created, 1)
	assert.Equal(t, api.NewCommunity{Name: "gophers", Description: "all things Go", Tags: []string{"go"}}, ta.comms.created[0])
}

func TestEditProfile(t *testing.T) {
	ta := newTestApp(t, "", "Alice A.", "")
	ta.signIn(t, common.RoleUser, time.Hour)

	require.NoError(t, ta.EditProfile(context.Background()))
	require.Len(t, ta.profile.updates, 1)
	require.NotNil(t, ta.profile.updates[0].DisplayName)
	assert.Nil(t, ta.profile.updates[0].Bio)
	assert.Equal(t, "(Alice A. durable)", ta.status(context.Background()))
}

func TestRun_ReportsLogoutFromElsewhere(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t, common.RoleUser, time.Hour)

	// Keep the REPL blocked on input so the watchers stay alive.
	pr, pw := io.Pipe()
	ta.App.reader.Reset(pr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ta.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(ta.out.String(), "Resuming durable session (user)")
	}, 2*time.Second, 10*time.Millisecond)

	// Another terminal logs out through the shared store.
	require.NoError(t, ta.durable.Apply(context.Background(), nil, []string{common.AccessTokenKey, common.RefreshTokenKey}))

	require.Eventually(t, func() bool {
		return strings.Contains(ta.out.String(), "Signed out: no access token.")
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return ta.feed.resets.Load() > 0 && ta.notes.resets.Load() > 0
	}, time.Second, 10*time.Millisecond, "caches dropped with the session")

	_, _ = pw.Write([]byte("exit\n"))
	<-done
	cancel()
}

func TestRun_PromptsAndErrorsGoToOut(t *testing.T) {
	ta := newTestApp(t, "", "help", "feed", "bogus", "exit")

	ta.Run(context.Background())

	out := ta.out.String()
	assert.Contains(t, out, "Welcome to HexSocial CLI")
	assert.Contains(t, out, "hx > ")
	assert.Contains(t, out, helpGuest)
	assert.Contains(t, out, "Access denied: no access token, please log in")
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "Bye!")
}
