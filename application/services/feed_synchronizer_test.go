package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"echoclient/domain/feed"
	"echoclient/domain/session"
	apperrors "echoclient/pkg/errors"
)

func threeItems() []feed.Item {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []feed.Item{
		{ID: 3, AuthorID: 7, AuthorName: "Fatma", Content: "third", CreatedAt: at},
		{ID: 5, AuthorID: 8, AuthorName: "Ali", Content: "second", CreatedAt: at, LikeCount: 1},
		{ID: 9, AuthorID: 7, AuthorName: "Fatma", Content: "first", CreatedAt: at},
	}
}

func newSynchronizer(api *fakeAPI, cache *fakeCache, sessions *session.Store) *FeedSynchronizer {
	var c *fakeCache
	if cache != nil {
		c = cache
	}
	if sessions == nil {
		sessions = session.NewStore()
	}
	if c == nil {
		return NewFeedSynchronizer(api, nil, sessions, zap.NewNop())
	}
	return NewFeedSynchronizer(api, c, sessions, zap.NewNop())
}

func TestFetchAllReplacesListWhole(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems(), nil
	}}
	sync := newSynchronizer(api, nil, nil)

	require.NoError(t, sync.FetchAll(context.Background()))
	assert.Equal(t, threeItems(), sync.Items(), "server order preserved")

	// A later fetch replaces everything, including items no longer present.
	api.listFn = func(context.Context) ([]feed.Item, error) {
		return threeItems()[:1], nil
	}
	require.NoError(t, sync.FetchAll(context.Background()))
	assert.Len(t, sync.Items(), 1)
}

func TestFetchAllFailureLeavesListUntouched(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems(), nil
	}}
	sync := newSynchronizer(api, nil, nil)
	require.NoError(t, sync.FetchAll(context.Background()))

	api.listFn = func(context.Context) ([]feed.Item, error) {
		return nil, apperrors.NewTransportError("request timed out", errors.New("deadline"))
	}

	err := sync.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err), "failure is reported to the caller")
	assert.Equal(t, threeItems(), sync.Items(), "stale-but-available beats empty-and-broken")
}

func TestStaleFetchResponseIsDiscarded(t *testing.T) {
	// Two overlapping fetches where the first to start is the last to
	// resolve. Its response must be dropped.
	release := make(chan []feed.Item)
	started := make(chan struct{}, 2)
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		started <- struct{}{}
		return <-release, nil
	}}
	sync := newSynchronizer(api, nil, nil)

	slowDone := make(chan error)
	go func() { slowDone <- sync.FetchAll(context.Background()) }()
	<-started // slow fetch has taken its generation

	fastDone := make(chan error)
	go func() { fastDone <- sync.FetchAll(context.Background()) }()
	<-started

	fresh := threeItems()[:2]
	release <- fresh // fast fetch resolves first
	require.NoError(t, <-fastDone)

	release <- threeItems() // slow fetch resolves late with the old snapshot
	require.NoError(t, <-slowDone)

	assert.Equal(t, fresh, sync.Items(), "late stale response must not overwrite the newer one")
}

func TestCreateRejectsBlankContentLocally(t *testing.T) {
	api := &fakeAPI{}
	sync := newSynchronizer(api, nil, nil)

	for _, content := range []string{"", "   ", "\n\t"} {
		err := sync.Create(context.Background(), content)
		assert.True(t, apperrors.IsValidation(err))
	}
	assert.Zero(t, api.createCalls, "no network call for blank content")
}

func TestCreateSendsContent(t *testing.T) {
	var sent string
	api := &fakeAPI{createFn: func(_ context.Context, content string) error {
		sent = content
		return nil
	}}
	sync := newSynchronizer(api, nil, nil)

	require.NoError(t, sync.Create(context.Background(), "hello feed"))
	assert.Equal(t, "hello feed", sent)
	assert.Empty(t, sync.Items(), "no optimistic placeholder is inserted")
}

func TestToggleLikeIsLocalAndIdempotentUnderDoubleToggle(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems(), nil
	}}
	sync := newSynchronizer(api, nil, nil)
	require.NoError(t, sync.FetchAll(context.Background()))

	before, _ := sync.Item(5)

	require.NoError(t, sync.ToggleLike(5))
	liked, _ := sync.Item(5)
	assert.True(t, liked.LikedByViewer)
	assert.Equal(t, before.LikeCount+1, liked.LikeCount)

	require.NoError(t, sync.ToggleLike(5))
	restored, _ := sync.Item(5)
	assert.Equal(t, before, restored, "double toggle restores the original state")

	assert.Equal(t, 1, api.listCalls, "likes never touch the network")
}

func TestToggleLikeUnknownID(t *testing.T) {
	sync := newSynchronizer(&fakeAPI{}, nil, nil)
	assert.True(t, apperrors.IsNotFound(sync.ToggleLike(404)))
}

func TestLikeStateResetsOnRefetch(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems(), nil
	}}
	sync := newSynchronizer(api, nil, nil)
	require.NoError(t, sync.FetchAll(context.Background()))
	require.NoError(t, sync.ToggleLike(5))

	require.NoError(t, sync.FetchAll(context.Background()))

	item, _ := sync.Item(5)
	assert.False(t, item.LikedByViewer, "optimistic like is not durable across refetch")
}

func TestDeleteRemovesExactlyOneItem(t *testing.T) {
	api := &fakeAPI{
		listFn:   func(context.Context) ([]feed.Item, error) { return threeItems(), nil },
		deleteFn: func(context.Context, int64) error { return nil },
	}
	sync := newSynchronizer(api, nil, nil)
	require.NoError(t, sync.FetchAll(context.Background()))

	require.NoError(t, sync.Delete(context.Background(), 5))

	var ids []int64
	for _, item := range sync.Items() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int64{3, 9}, ids)
}

func TestDeleteFailureLeavesListUnchanged(t *testing.T) {
	api := &fakeAPI{
		listFn: func(context.Context) ([]feed.Item, error) { return threeItems(), nil },
		deleteFn: func(context.Context, int64) error {
			return apperrors.NewServerError(403, "you cannot delete this post")
		},
	}
	sync := newSynchronizer(api, nil, nil)
	require.NoError(t, sync.FetchAll(context.Background()))

	err := sync.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, "you cannot delete this post", apperrors.UserMessage(err))
	assert.Equal(t, threeItems(), sync.Items())
}

func TestCanModify(t *testing.T) {
	sessions := session.NewStore()
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems(), nil
	}}
	sync := newSynchronizer(api, nil, sessions)
	require.NoError(t, sync.FetchAll(context.Background()))

	assert.False(t, sync.CanModify(3), "anonymous viewer owns nothing")

	sessions.Establish(session.Profile{ID: 7, Name: "Fatma"})
	assert.True(t, sync.CanModify(3))
	assert.False(t, sync.CanModify(5), "item 5 belongs to another user")
	assert.False(t, sync.CanModify(404))
}

func TestFetchAllWritesThroughToCache(t *testing.T) {
	cache := &fakeCache{}
	api := &fakeAPI{
		listFn:   func(context.Context) ([]feed.Item, error) { return threeItems(), nil },
		deleteFn: func(context.Context, int64) error { return nil },
	}
	sync := newSynchronizer(api, cache, nil)

	require.NoError(t, sync.FetchAll(context.Background()))
	assert.Equal(t, threeItems(), cache.snapshot)

	require.NoError(t, sync.Delete(context.Background(), 5))
	assert.Len(t, cache.snapshot, 2, "delete keeps the cache in step")
}

func TestCacheFailureDoesNotFailFetch(t *testing.T) {
	cache := &fakeCache{saveErr: errors.New("disk full")}
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems(), nil
	}}
	sync := newSynchronizer(api, cache, nil)

	require.NoError(t, sync.FetchAll(context.Background()))
	assert.Equal(t, threeItems(), sync.Items())
}

func TestLoadCachedSeedsOnlyBeforeFirstFetch(t *testing.T) {
	cache := &fakeCache{snapshot: threeItems()}
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems()[:1], nil
	}}
	sync := newSynchronizer(api, cache, nil)

	sync.LoadCached()
	assert.Equal(t, threeItems(), sync.Items())

	require.NoError(t, sync.FetchAll(context.Background()))
	sync.LoadCached()
	assert.Len(t, sync.Items(), 1, "cache never overwrites an applied server snapshot")
}

func TestItemsReturnsReadOnlySnapshot(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context) ([]feed.Item, error) {
		return threeItems(), nil
	}}
	sync := newSynchronizer(api, nil, nil)
	require.NoError(t, sync.FetchAll(context.Background()))

	snapshot := sync.Items()
	snapshot[0].Content = "mutated by a screen"

	fresh, _ := sync.Item(3)
	assert.Equal(t, "third", fresh.Content)
}
