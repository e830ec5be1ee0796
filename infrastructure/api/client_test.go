package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"echoclient/application/ports"
	apperrors "echoclient/pkg/errors"
)

// stubCreds is an in-memory credential store for gateway tests.
type stubCreds struct {
	token string
}

func (s *stubCreds) Save(token string) error { s.token = token; return nil }
func (s *stubCreds) Load() (string, bool)    { return s.token, s.token != "" }
func (s *stubCreds) Clear() error            { s.token = ""; return nil }

func newTestClient(t *testing.T, handler http.Handler, creds ports.CredentialStore) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw := NewGateway(srv.URL, 2*time.Second, creds, zap.NewNop())
	return NewClient(gw), srv
}

func TestGatewayAttachesBearerHeader(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{token: "tok-123"})

	_, err := client.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestGatewaySendsUnauthenticatedWithoutCredential(t *testing.T) {
	var header string
	var hasRequestID bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		hasRequestID = r.Header.Get("X-Request-ID") != ""
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{})

	_, err := client.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, header, "no credential stored means no Authorization header")
	assert.True(t, hasRequestID)
}

func TestLoginDecodesTokenAndUser(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test@echo.com", body["email"])

		w.Write([]byte(`{
			"token": "abc",
			"user": {
				"id": 7, "email": "test@echo.com", "username": "fatma",
				"name": "Fatma", "bio": "",
				"_count": {"posts": 3, "followers": 1, "following": 2}
			}
		}`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{})

	res, err := client.Login(context.Background(), "test@echo.com", "123")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)
	assert.Equal(t, int64(7), res.User.ID)
	assert.Equal(t, "Fatma", res.User.Name)
	assert.Equal(t, 3, res.User.Posts)
}

func TestLoginMissingTokenIsMalformed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user": {"id": 7}}`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{})

	_, err := client.Login(context.Background(), "a@b.com", "x")
	assert.True(t, apperrors.IsMalformed(err))
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Geçersiz şifre"}`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{})

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.True(t, apperrors.IsAuth(err))
	assert.Equal(t, "Geçersiz şifre", apperrors.UserMessage(err))
}

func TestServerErrorCarriesVerbatimMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "you cannot delete this post"}`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{token: "tok"})

	err := client.DeletePost(context.Background(), 5)
	require.True(t, apperrors.IsServer(err))
	assert.Equal(t, "you cannot delete this post", apperrors.UserMessage(err))
}

func TestServerErrorWithoutPayloadGetsFallback(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{})

	err := client.CreatePost(context.Background(), "hi")
	require.True(t, apperrors.IsServer(err))
	assert.Equal(t, "Something went wrong.", apperrors.UserMessage(err))
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	gw := NewGateway(srv.URL, time.Second, &stubCreds{}, zap.NewNop())
	client := NewClient(gw)

	_, err := client.ListPosts(context.Background())
	assert.True(t, apperrors.IsTransport(err))
}

func TestUndecodableBodyIsMalformed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"this is": not json`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{})

	_, err := client.ListPosts(context.Background())
	assert.True(t, apperrors.IsMalformed(err))
}

func TestListPostsNormalizesItems(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		// Mixed ID representations: number, string, and nested-only author.
		w.Write([]byte(`[
			{"id": 3, "content": "one", "createdAt": "2024-05-01T10:00:00Z",
			 "authorId": "7", "author": {"id": 7, "name": "Fatma"},
			 "likeCount": 2, "likedByCurrentUser": true},
			{"id": "9", "content": "two", "createdAt": "2024-05-02T10:00:00Z",
			 "author": {"id": "8", "name": "Ali"},
			 "likeCount": 0, "likedByCurrentUser": false}
		]`))
	})
	client, _ := newTestClient(t, handler, &stubCreds{token: "tok"})

	items, err := client.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(7), items[0].AuthorID)
	assert.Equal(t, "Fatma", items[0].AuthorName)
	assert.True(t, items[0].LikedByViewer)

	assert.Equal(t, int64(9), items[1].ID)
	assert.Equal(t, int64(8), items[1].AuthorID, "author id falls back to the nested object")
}

func TestDeletePostTargetsItemPath(t *testing.T) {
	var path, method string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	})
	client, _ := newTestClient(t, handler, &stubCreds{token: "tok"})

	require.NoError(t, client.DeletePost(context.Background(), 5))
	assert.Equal(t, "/posts/5", path)
	assert.Equal(t, http.MethodDelete, method)
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
		bad  bool
	}{
		{"number", `7`, 7, false},
		{"string", `"7"`, 7, false},
		{"null", `null`, 0, false},
		{"large", `1099511627777`, 1099511627777, false},
		{"garbage", `"seven"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.in), &id)
			if tt.bad {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.Int64())
		})
	}
}
