package api

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"echoclient/domain/feed"
	"echoclient/domain/session"
)

// ID decodes a server identifier into the one canonical numeric type used
// everywhere in the client. The API has been observed sending IDs both as
// JSON numbers and as numeric strings; normalizing here keeps ownership
// comparisons from ever crossing representations.
type ID int64

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	if data[0] == '"' {
		if len(data) < 2 || data[len(data)-1] != '"' {
			return fmt.Errorf("invalid id %s", data)
		}
		data = data[1 : len(data)-1]
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", data, err)
	}
	*id = ID(v)
	return nil
}

// Int64 returns the canonical value.
func (id ID) Int64() int64 { return int64(id) }

// userPayload is the user object shape shared by the login and profile
// endpoints.
type userPayload struct {
	ID       ID     `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
	Count    struct {
		Posts     int `json:"posts"`
		Followers int `json:"followers"`
		Following int `json:"following"`
	} `json:"_count"`
}

// toProfile converts the payload into the domain profile. Some server
// versions populate name, older ones fullName; either is accepted.
func (u userPayload) toProfile() session.Profile {
	name := u.Name
	if name == "" {
		name = u.FullName
	}
	return session.Profile{
		ID:        u.ID.Int64(),
		Email:     u.Email,
		Username:  u.Username,
		Name:      name,
		Bio:       u.Bio,
		Posts:     u.Count.Posts,
		Followers: u.Count.Followers,
		Following: u.Count.Following,
	}
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type updateProfileResponse struct {
	User struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	} `json:"user"`
}

// postPayload is one element of the GET /posts response.
type postPayload struct {
	ID        ID        `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	AuthorID  ID        `json:"authorId"`
	Author    struct {
		ID   ID     `json:"id"`
		Name string `json:"name"`
	} `json:"author"`
	LikeCount     int  `json:"likeCount"`
	LikedByViewer bool `json:"likedByCurrentUser"`
}

// toItem converts the payload into the domain item. The author ID may
// arrive flat or nested depending on server version.
func (p postPayload) toItem() feed.Item {
	authorID := p.AuthorID.Int64()
	if authorID == 0 {
		authorID = p.Author.ID.Int64()
	}
	return feed.Item{
		ID:            p.ID.Int64(),
		AuthorID:      authorID,
		AuthorName:    p.Author.Name,
		Content:       p.Content,
		CreatedAt:     p.CreatedAt,
		LikeCount:     p.LikeCount,
		LikedByViewer: p.LikedByViewer,
	}
}

// errorPayload covers both error body shapes the API uses: login-style
// {"error": ...} and register-style {"message": ...}.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorPayload) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
