package services

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"echoclient/application/ports"
	"echoclient/domain/feed"
	"echoclient/domain/session"
	apperrors "echoclient/pkg/errors"
)

// FeedSynchronizer owns the local copy of the feed and the reconciliation
// protocol against the server. Screens only ever see snapshots; every
// mutation of the backing list goes through this type.
//
// Racing fetches are resolved with a monotonically increasing request
// generation: a response whose generation is older than the last applied
// one is discarded, so a slow stale refresh can never overwrite a newer
// snapshot.
type FeedSynchronizer struct {
	api      ports.EchoAPI
	cache    ports.FeedCache
	sessions *session.Store
	logger   *zap.Logger

	mu         sync.Mutex
	items      []feed.Item
	generation uint64 // last issued fetch generation
	applied    uint64 // generation of the snapshot currently held
}

// NewFeedSynchronizer creates a synchronizer. cache may be nil when no
// on-device cache is configured.
func NewFeedSynchronizer(
	api ports.EchoAPI,
	cache ports.FeedCache,
	sessions *session.Store,
	logger *zap.Logger,
) *FeedSynchronizer {
	return &FeedSynchronizer{
		api:      api,
		cache:    cache,
		sessions: sessions,
		logger:   logger,
	}
}

// Items returns a read-only snapshot of the current feed.
func (s *FeedSynchronizer) Items() []feed.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return feed.CloneList(s.items)
}

// Item returns a snapshot of the single item with the given id.
func (s *FeedSynchronizer) Item(id int64) (feed.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return feed.Item{}, false
}

// FetchAll requests the current feed snapshot and replaces the local list
// whole on success, preserving server order. On failure the local list is
// left untouched: stale-but-available beats empty-and-broken, and the
// error is returned for user-facing signaling. Expected to run on every
// screen re-entry since the feed drifts with other users' activity.
func (s *FeedSynchronizer) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	items, err := s.api.ListPosts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if gen <= s.applied {
		s.mu.Unlock()
		s.logger.Debug("discarding stale feed response",
			zap.Uint64("generation", gen),
			zap.Uint64("applied", s.applied),
		)
		return nil
	}
	s.applied = gen
	s.items = feed.CloneList(items)
	snapshot := feed.CloneList(items)
	s.mu.Unlock()

	s.saveToCache(snapshot)
	return nil
}

// LoadCached seeds the feed from the on-device cache. Intended for
// startup, before the first fetch; it never overwrites a server snapshot
// already applied and any cache failure is swallowed after logging.
func (s *FeedSynchronizer) LoadCached() {
	if s.cache == nil {
		return
	}
	items, err := s.cache.LoadSnapshot()
	if err != nil {
		s.logger.Warn("feed cache unreadable", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied > 0 {
		return
	}
	s.items = items
}

// Create publishes a new post. Content that trims to empty is rejected
// locally with no network call. No optimistic placeholder is inserted:
// creation is rare, and a follow-up FetchAll is simpler than reconciling
// a double insert.
func (s *FeedSynchronizer) Create(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.NewValidationError("content cannot be empty")
	}
	return s.api.CreatePost(ctx, content)
}

// ToggleLike flips the viewer's like on the matching item and adjusts its
// count, synchronously and locally only. There is no like endpoint in the
// service contract, so the state is not durable and resets on the next
// refetch. Toggling twice restores the original state.
func (s *FeedSynchronizer) ToggleLike(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].LikedByViewer {
			s.items[i].LikedByViewer = false
			s.items[i].LikeCount--
		} else {
			s.items[i].LikedByViewer = true
			s.items[i].LikeCount++
		}
		return nil
	}
	return apperrors.NewNotFoundError("post")
}

// Delete issues the server delete for id. On an accepted response exactly
// the matching item is removed from the local list, no refetch required.
// On failure the list is byte-for-byte unchanged and the error carries
// the server's message when it sent one. Confirmation is the screen's
// responsibility; by the time this runs the user has already confirmed.
func (s *FeedSynchronizer) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeletePost(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	snapshot := feed.CloneList(s.items)
	s.mu.Unlock()

	s.saveToCache(snapshot)
	return nil
}

// CanModify reports whether the current session owns the item with the
// given id. Both identifiers are canonical int64 values.
func (s *FeedSynchronizer) CanModify(id int64) bool {
	item, ok := s.Item(id)
	if !ok {
		return false
	}
	current := s.sessions.Current()
	if !current.Authenticated {
		return false
	}
	return feed.CanModify(item, current.UserID)
}

// saveToCache persists a snapshot best-effort; cache trouble never fails
// the triggering operation.
func (s *FeedSynchronizer) saveToCache(items []feed.Item) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveSnapshot(items); err != nil {
		s.logger.Warn("feed cache not updated", zap.Error(err))
	}
}
