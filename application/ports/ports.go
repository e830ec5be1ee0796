// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations; services never import
// infrastructure directly.
package ports

import (
	"context"

	"echoclient/domain/feed"
	"echoclient/domain/session"
)

// CredentialStore persists the single opaque session credential across
// process restarts. No other component may read or write the credential
// directly.
type CredentialStore interface {
	// Save stores the credential, replacing any previous one.
	Save(token string) error
	// Load retrieves the credential. ok is false when no credential is
	// stored or storage is unavailable; storage failure is always
	// treated as "no credential", never as an authenticated state.
	Load() (token string, ok bool)
	// Clear removes the credential.
	Clear() error
}

// LoginResult is the decoded response of a successful login.
type LoginResult struct {
	Token string
	User  session.Profile
}

// RegisterInput carries the fields sent to the registration endpoint.
type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// ProfileUpdate is the decoded response of a profile edit.
type ProfileUpdate struct {
	Name string
	Bio  string
}

// EchoAPI is the typed surface of the remote Echo service. Every method
// issues exactly one request through the authenticated gateway; there are
// no automatic retries anywhere behind this interface.
type EchoAPI interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
	UpdateProfile(ctx context.Context, name, bio string) (ProfileUpdate, error)
	ListPosts(ctx context.Context) ([]feed.Item, error)
	CreatePost(ctx context.Context, content string) error
	DeletePost(ctx context.Context, id int64) error
}

// FeedCache persists the last fetched feed snapshot so the app can show
// something while offline. It is strictly best-effort; cache failures
// never fail the operation that triggered them.
type FeedCache interface {
	SaveSnapshot(items []feed.Item) error
	LoadSnapshot() ([]feed.Item, error)
	Clear() error
}
