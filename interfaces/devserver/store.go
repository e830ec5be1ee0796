package devserver

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// user is a stored account.
type user struct {
	ID           int64
	Email        string
	Username     string
	Name         string
	Bio          string
	PasswordHash []byte
	Followers    int
	Following    int
}

// post is a stored feed post.
type post struct {
	ID        int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
}

// memoryStore is the devserver's whole persistence layer. Everything is
// lost on restart, which is exactly right for a development fixture.
type memoryStore struct {
	mu         sync.Mutex
	users      map[int64]*user
	posts      map[int64]*post
	nextUserID int64
	nextPostID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      make(map[int64]*user),
		posts:      make(map[int64]*post),
		nextUserID: 1,
		nextPostID: 1,
	}
}

// seed inserts the well-known development account the mobile app ships
// with prefilled: test@echo.com / 123, user id 7, name Fatma.
func (s *memoryStore) seed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[7] = &user{
		ID:           7,
		Email:        "test@echo.com",
		Username:     "fatma",
		Name:         "Fatma",
		Bio:          "",
		PasswordHash: hash,
	}
	s.nextUserID = 8
	return nil
}

func (s *memoryStore) findUserByEmail(email string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, true
		}
	}
	return nil, false
}

func (s *memoryStore) findUser(id int64) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	copied := *u
	return &copied, true
}

func (s *memoryStore) emailOrUsernameTaken(email, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email || u.Username == username {
			return true
		}
	}
	return false
}

func (s *memoryStore) createUser(email, username, name string, passwordHash []byte) *user {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{
		ID:           s.nextUserID,
		Email:        email,
		Username:     username,
		Name:         name,
		PasswordHash: passwordHash,
	}
	s.nextUserID++
	s.users[u.ID] = u
	copied := *u
	return &copied
}

func (s *memoryStore) updateUser(id int64, name, bio string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	u.Name = name
	u.Bio = bio
	copied := *u
	return &copied, true
}

func (s *memoryStore) createPost(authorID int64, content string) *post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &post{
		ID:        s.nextPostID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.nextPostID++
	s.posts[p.ID] = p
	copied := *p
	return &copied
}

// listPosts returns all posts most recent first.
func (s *memoryStore) listPosts() []post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *memoryStore) findPost(id int64) (*post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, false
	}
	copied := *p
	return &copied, true
}

func (s *memoryStore) deletePost(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
}

func (s *memoryStore) countPostsBy(authorID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n
}
