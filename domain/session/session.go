package session

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackDisplayName is shown when the server does not supply a name for
// the account. It is the placeholder the Echo apps have always used.
const FallbackDisplayName = "İsimsiz Kullanıcı"

// Session is the single current-user identity record. A zero Session is
// the anonymous state: Authenticated false and every other field empty.
type Session struct {
	Authenticated  bool
	UserID         int64
	Username       string
	Email          string
	DisplayName    string
	AvatarInitial  string
	Bio            string
	PostCount      int
	FollowerCount  int
	FollowingCount int
}

// Profile carries the server-provided user fields consumed when a session
// is established. IDs are already normalized to int64 at the API boundary.
type Profile struct {
	ID        int64
	Email     string
	Username  string
	Name      string
	Bio       string
	Posts     int
	Followers int
	Following int
}

// ResolveDisplayName substitutes the fallback placeholder when the server
// omitted a display name.
func ResolveDisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return FallbackDisplayName
	}
	return name
}

// AvatarInitial derives the uppercased first rune of the resolved display
// name, falling back to "?" when the name is empty. It must be re-derived
// whenever the display name changes; it is never cached independently.
func AvatarInitial(displayName string) string {
	trimmed := strings.TrimSpace(displayName)
	if trimmed == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
