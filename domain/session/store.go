package session

import "sync"

// Store is the single authoritative record of who is logged in. Exactly
// one instance exists per running app; every screen reads it and only
// Establish and Clear write it. If two Establish calls race, the last
// committed write wins with no merge.
type Store struct {
	mu      sync.RWMutex
	current Session
}

// NewStore creates a store in the Anonymous state.
func NewStore() *Store {
	return &Store{}
}

// Establish transitions the store to Authenticated, mapping the
// server-provided profile onto the session record. The display name falls
// back to the placeholder when the server omitted one, and the avatar
// initial is derived from the resolved name.
func (s *Store) Establish(p Profile) {
	name := ResolveDisplayName(p.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{
		Authenticated:  true,
		UserID:         p.ID,
		Username:       p.Username,
		Email:          p.Email,
		DisplayName:    name,
		AvatarInitial:  AvatarInitial(name),
		Bio:            p.Bio,
		PostCount:      p.Posts,
		FollowerCount:  p.Followers,
		FollowingCount: p.Following,
	}
}

// Clear transitions the store back to Anonymous. Every field is reset at
// once; partial resets are forbidden, so no stale data can survive a
// logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
}

// UpdateProfile merges an edited name and bio into an authenticated
// session and re-derives the avatar initial. It is a no-op while
// anonymous.
func (s *Store) UpdateProfile(name, bio string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.Authenticated {
		return
	}
	resolved := ResolveDisplayName(name)
	s.current.DisplayName = resolved
	s.current.AvatarInitial = AvatarInitial(resolved)
	s.current.Bio = bio
}

// Current returns a copy of the session record.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Authenticated reports whether a session is established.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated
}
