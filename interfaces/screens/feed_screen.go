// Package screens holds the presentation-side controllers. They hold the
// short-lived per-screen state and translate user intents into service
// calls; all durable state lives in the services they wrap.
package screens

import (
	"context"

	"go.uber.org/zap"

	"echoclient/application/services"
	"echoclient/domain/feed"
	"echoclient/domain/session"
	apperrors "echoclient/pkg/errors"
)

// FeedScreen drives one displayed feed: the item list, the per-item
// action menu, and the two-phase delete flow. A new instance is created
// each time the user navigates to the feed, so menu state never leaks
// between visits.
type FeedScreen struct {
	feed     *services.FeedSynchronizer
	sessions *session.Store
	logger   *zap.Logger
	menu     MenuState
}

// NewFeedScreen creates the controller for one feed screen instance.
func NewFeedScreen(feedSync *services.FeedSynchronizer, sessions *session.Store, logger *zap.Logger) *FeedScreen {
	return &FeedScreen{feed: feedSync, sessions: sessions, logger: logger}
}

// Enter refreshes the feed, as happens on every screen entry. A failed
// refresh keeps whatever list was already loaded and reports the error
// for user-facing signaling.
func (s *FeedScreen) Enter(ctx context.Context) error {
	return s.feed.FetchAll(ctx)
}

// Leave resets the transient state when the user navigates away.
func (s *FeedScreen) Leave() {
	s.menu.Close()
}

// Items returns the current read-only feed snapshot for rendering.
func (s *FeedScreen) Items() []feed.Item {
	return s.feed.Items()
}

// ToggleMenu handles a tap on an item's menu button. Opening one item's
// menu closes any other.
func (s *FeedScreen) ToggleMenu(id int64) {
	s.menu.Toggle(id)
}

// TapOutside handles a tap anywhere outside an open menu.
func (s *FeedScreen) TapOutside() {
	s.menu.Close()
}

// OpenMenu exposes the menu state for rendering.
func (s *FeedScreen) OpenMenu() (int64, bool) {
	return s.menu.Open()
}

// Like flips the viewer's like on an item. The mutation closes the open
// menu.
func (s *FeedScreen) Like(id int64) error {
	err := s.feed.ToggleLike(id)
	if err == nil {
		s.menu.Close()
	}
	return err
}

// DeleteConfirmation is phase one of a delete: the prompt the user must
// answer before anything is sent. Cancel and Confirm are its only two
// outcomes.
type DeleteConfirmation struct {
	screen *FeedScreen
	itemID int64
}

// RequestDelete starts the delete flow for an item. Only the item's
// author may delete it; for anyone else this fails without a prompt.
func (s *FeedScreen) RequestDelete(id int64) (*DeleteConfirmation, error) {
	if _, ok := s.feed.Item(id); !ok {
		return nil, apperrors.NewNotFoundError("post")
	}
	if !s.feed.CanModify(id) {
		return nil, apperrors.NewValidationError("you can only delete your own posts")
	}
	return &DeleteConfirmation{screen: s, itemID: id}, nil
}

// Cancel abandons the delete. No network call is made; the open menu is
// cleared.
func (c *DeleteConfirmation) Cancel() {
	c.screen.menu.Close()
}

// Confirm is phase two: the destructive outcome. On success the item is
// gone from the local list and the menu is cleared; on failure the list
// is untouched and the menu stays for the user to retry or cancel.
func (c *DeleteConfirmation) Confirm(ctx context.Context) error {
	if err := c.screen.feed.Delete(ctx, c.itemID); err != nil {
		return err
	}
	c.screen.menu.Close()
	return nil
}

// ItemID identifies the post the prompt is about, for rendering the
// confirmation text.
func (c *DeleteConfirmation) ItemID() int64 {
	return c.itemID
}
