package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/thoughts-backend/internal/auth"
	"github.com/baharkarakas/thoughts-backend/internal/cache"
	"github.com/baharkarakas/thoughts-backend/internal/events"
	"github.com/baharkarakas/thoughts-backend/internal/models"
	repo "github.com/baharkarakas/thoughts-backend/internal/repository"
	"github.com/baharkarakas/thoughts-backend/internal/repository/memory"
	"github.com/baharkarakas/thoughts-backend/internal/worker"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	thoughts *ThoughtService
	users    *UserService
	events   *recorder
	redis    *miniredis.Miniredis
}

func newFixture(t *testing.T, cascade bool) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedis(context.Background(), mr.Addr())
	require.NoError(t, err)

	rec := &recorder{}
	d := Deps{
		Repos:    memory.NewRepositories(),
		Cache:    c,
		Fence:    cache.NewFence(),
		CacheTTL: time.Minute,
		Events:   rec,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Cascade:  cascade,
	}
	return fixture{thoughts: NewThoughtService(d), users: NewUserService(d), events: rec, redis: mr}
}

func TestCreateThoughtLinksUser(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	u, err := f.users.Create(ctx, models.User{Username: " alice ", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// warm the cache so the link has something to invalidate
	_, err = f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, f.redis.Exists(cache.UserKey(u.ID)))

	th, err := f.thoughts.Create(ctx, models.Thought{ThoughtText: "first", Username: "alice"})
	require.NoError(t, err)
	assert.Empty(t, th.Reactions)
	assert.False(t, th.CreatedAt.IsZero())
	assert.False(t, f.redis.Exists(cache.UserKey(u.ID)))

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{th.ID}, got.Thoughts)

	_, err = f.thoughts.Create(ctx, models.Thought{ThoughtText: "orphan", Username: "nobody"})
	assert.NoError(t, err)

	assert.Equal(t, []string{events.UserCreated, events.ThoughtCreated, events.ThoughtCreated}, f.events.types())
}

func TestThoughtValidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.thoughts.Create(ctx, models.Thought{ThoughtText: "", Username: "a"})
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))

	th, err := f.thoughts.Create(ctx, models.Thought{ThoughtText: "ok", Username: "a"})
	require.NoError(t, err)

	long := string(make([]byte, 281))
	_, err = f.thoughts.AddReaction(ctx, th.ID, models.Reaction{ReactionBody: long, Username: "b"})
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))

	empty := ""
	_, err = f.thoughts.Update(ctx, th.ID, models.ThoughtPatch{ThoughtText: &empty})
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
}

func TestThoughtCacheInvalidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	th, err := f.thoughts.Create(ctx, models.Thought{ThoughtText: "v1", Username: "a"})
	require.NoError(t, err)

	_, err = f.thoughts.Get(ctx, th.ID)
	require.NoError(t, err)
	require.True(t, f.redis.Exists(cache.ThoughtKey(th.ID)))

	text := "v2"
	_, err = f.thoughts.Update(ctx, th.ID, models.ThoughtPatch{ThoughtText: &text})
	require.NoError(t, err)
	assert.False(t, f.redis.Exists(cache.ThoughtKey(th.ID)))

	got, err := f.thoughts.Get(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.ThoughtText)

	got, err = f.thoughts.AddReaction(ctx, th.ID, models.Reaction{ReactionBody: "+1", Username: "b"})
	require.NoError(t, err)
	require.Len(t, got.Reactions, 1)
	assert.False(t, got.Reactions[0].CreatedAt.IsZero())

	cached, err := f.thoughts.Get(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.ReactionCount())

	got, err = f.thoughts.RemoveReaction(ctx, th.ID, got.Reactions[0].ReactionID)
	require.NoError(t, err)
	assert.Zero(t, got.ReactionCount())

	require.NoError(t, f.thoughts.Delete(ctx, th.ID))
	_, err = f.thoughts.Get(ctx, th.ID)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(f.thoughts.Delete(ctx, th.ID)))
}

func TestDeleteWithoutCascadeLeavesReferences(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	a, _ := f.users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	b, _ := f.users.Create(ctx, models.User{Username: "b", Email: "b@x.io"})
	_, err := f.users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, b.ID))
	got, err := f.users.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, got.Friends)
}

func TestCascadeDeletes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a, _ := f.users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	b, _ := f.users.Create(ctx, models.User{Username: "b", Email: "b@x.io"})
	_, err := f.users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)

	t1, _ := f.thoughts.Create(ctx, models.Thought{ThoughtText: "by b", Username: "b"})
	t2, _ := f.thoughts.Create(ctx, models.Thought{ThoughtText: "by a", Username: "a"})

	require.NoError(t, f.thoughts.Delete(ctx, t2.ID))
	got, err := f.users.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Thoughts)

	require.NoError(t, f.users.Delete(ctx, b.ID))
	got, err = f.users.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Friends)

	_, err = f.thoughts.Get(ctx, t1.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestFriends(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	a, _ := f.users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	b, _ := f.users.Create(ctx, models.User{Username: "b", Email: "b@x.io"})

	u, err := f.users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.FriendCount())

	_, err = f.users.AddFriend(ctx, a.ID, b.ID)
	require.Error(t, err)
	assert.Equal(t, models.MsgFriendExists, err.(*models.AppError).Message)

	u, err = f.users.RemoveFriend(ctx, a.ID, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, u.Friends)

	_, err = f.users.RemoveFriend(ctx, "missing", b.ID)
	assert.True(t, models.IsNotFound(err))

	_, err = f.users.Create(ctx, models.User{Username: "c", Email: "not-an-email"})
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
	_, err = f.users.Create(ctx, models.User{Username: "a", Email: "z@x.io"})
	assert.Equal(t, models.CodeConflict, models.CodeOf(err))
}

func TestAuthService(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()
	u, err := repos.Users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	require.NoError(t, err)

	s := NewAuthService(repos.Users, auth.NewTokenManager("a", "r", time.Minute, time.Hour))

	pair, err := s.Issue(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)

	_, err = s.Issue(ctx, "missing")
	assert.True(t, models.IsNotFound(err))
	_, err = s.Issue(ctx, "")
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))

	again, err := s.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, again.Refresh)

	_, err = s.Refresh(ctx, pair.Access)
	assert.Equal(t, models.CodeUnauthorized, models.CodeOf(err))
}

// pausingThoughts holds the first armed GetByID after it has read the store,
// so a write can land between the read and the cache fill.
type pausingThoughts struct {
	repo.Thoughts
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (p *pausingThoughts) GetByID(ctx context.Context, id string) (models.Thought, error) {
	t, err := p.Thoughts.GetByID(ctx, id)
	if p.armed.CompareAndSwap(true, false) {
		close(p.read)
		<-p.release
	}
	return t, err
}

func TestReadRacingWriteDoesNotCacheOldThought(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	repos := memory.NewRepositories()
	slow := &pausingThoughts{Thoughts: repos.Thoughts, read: make(chan struct{}), release: make(chan struct{})}
	repos.Thoughts = slow
	d := f.thoughts.Deps
	d.Repos = repos
	svc := NewThoughtService(d)

	th, err := svc.Create(ctx, models.Thought{ThoughtText: "v1", Username: "a"})
	require.NoError(t, err)

	slow.armed.Store(true)
	done := make(chan models.Thought)
	go func() {
		got, _ := svc.Get(ctx, th.ID)
		done <- got
	}()
	<-slow.read

	text := "v2"
	_, err = svc.Update(ctx, th.ID, models.ThoughtPatch{ThoughtText: &text})
	require.NoError(t, err)
	close(slow.release)
	assert.Equal(t, "v1", (<-done).ThoughtText)

	assert.False(t, f.redis.Exists(cache.ThoughtKey(th.ID)))
	got, err := svc.Get(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.ThoughtText)
}

func TestFillSkippedAfterInvalidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	key := cache.UserKey("u1")

	token := f.users.Fence.Token(key)
	f.users.invalidate(ctx, key)
	f.users.fill(ctx, key, token, models.User{ID: "u1"})
	assert.False(t, f.redis.Exists(key))

	token = f.users.Fence.Token(key)
	f.users.fill(ctx, key, token, models.User{ID: "u1"})
	assert.True(t, f.redis.Exists(key))
}

func TestEventsForOneIDKeepOrder(t *testing.T) {
	f := newFixture(t, false)
	pool := worker.NewPool(8, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d := f.thoughts.Deps
	d.Pool = pool
	svc := NewThoughtService(d)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		svc.emit(ctx, events.ThoughtCreated, "t1", nil)
		svc.emit(ctx, events.ThoughtDeleted, "t1", nil)
	}
	pool.Stop()

	got := f.events.types()
	require.Len(t, got, 100)
	for i := 0; i < len(got); i += 2 {
		assert.Equal(t, []string{events.ThoughtCreated, events.ThoughtDeleted}, got[i:i+2])
	}
}
