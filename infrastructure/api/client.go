package api

import (
	"context"
	"fmt"
	"net/http"

	"echoclient/application/ports"
	"echoclient/domain/feed"
	apperrors "echoclient/pkg/errors"
)

// Client is the typed surface of the Echo API, one method per endpoint in
// the service contract. It implements ports.EchoAPI.
type Client struct {
	gateway *Gateway
}

// NewClient creates a client on top of the authenticated gateway.
func NewClient(gateway *Gateway) *Client {
	return &Client{gateway: gateway}
}

var _ ports.EchoAPI = (*Client)(nil)

// Login exchanges credentials for a session token and the user's profile.
func (c *Client) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	req := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.gateway.Do(ctx, http.MethodPost, "/users/login", req, &resp); err != nil {
		return ports.LoginResult{}, err
	}
	if resp.Token == "" || resp.User.ID == 0 {
		return ports.LoginResult{}, apperrors.NewMalformedError(
			"login response missing token or user", nil)
	}
	return ports.LoginResult{Token: resp.Token, User: resp.User.toProfile()}, nil
}

// Register creates an account. A successful response carries no session
// side effect; the caller must log in afterwards.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	req := map[string]string{
		"fullName": in.FullName,
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
	}
	return c.gateway.Do(ctx, http.MethodPost, "/users/register", req, nil)
}

// UpdateProfile edits the authenticated user's name and bio.
func (c *Client) UpdateProfile(ctx context.Context, name, bio string) (ports.ProfileUpdate, error) {
	req := map[string]string{"name": name, "bio": bio}

	var resp updateProfileResponse
	if err := c.gateway.Do(ctx, http.MethodPut, "/users/update", req, &resp); err != nil {
		return ports.ProfileUpdate{}, err
	}
	return ports.ProfileUpdate{Name: resp.User.Name, Bio: resp.User.Bio}, nil
}

// ListPosts fetches the current feed snapshot, most recent first.
func (c *Client) ListPosts(ctx context.Context) ([]feed.Item, error) {
	var payload []postPayload
	if err := c.gateway.Do(ctx, http.MethodGet, "/posts", nil, &payload); err != nil {
		return nil, err
	}

	items := make([]feed.Item, 0, len(payload))
	for _, p := range payload {
		items = append(items, p.toItem())
	}
	return items, nil
}

// CreatePost publishes a new post. The created item is not returned; the
// caller refetches the feed to see it.
func (c *Client) CreatePost(ctx context.Context, content string) error {
	req := map[string]string{"content": content}
	return c.gateway.Do(ctx, http.MethodPost, "/posts/create", req, nil)
}

// DeletePost removes a post by ID.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.gateway.Do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}
