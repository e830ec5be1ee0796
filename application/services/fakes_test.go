package services

import (
	"context"
	"errors"

	"echoclient/application/ports"
	"echoclient/domain/feed"
)

// fakeAPI implements ports.EchoAPI with programmable behavior and call
// counters.
type fakeAPI struct {
	loginFn    func(ctx context.Context, email, password string) (ports.LoginResult, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) error
	updateFn   func(ctx context.Context, name, bio string) (ports.ProfileUpdate, error)
	listFn     func(ctx context.Context) ([]feed.Item, error)
	createFn   func(ctx context.Context, content string) error
	deleteFn   func(ctx context.Context, id int64) error

	loginCalls    int
	registerCalls int
	listCalls     int
	createCalls   int
	deleteCalls   int
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	f.loginCalls++
	if f.loginFn == nil {
		return ports.LoginResult{}, errors.New("unexpected Login call")
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeAPI) Register(ctx context.Context, in ports.RegisterInput) error {
	f.registerCalls++
	if f.registerFn == nil {
		return errors.New("unexpected Register call")
	}
	return f.registerFn(ctx, in)
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, name, bio string) (ports.ProfileUpdate, error) {
	if f.updateFn == nil {
		return ports.ProfileUpdate{}, errors.New("unexpected UpdateProfile call")
	}
	return f.updateFn(ctx, name, bio)
}

func (f *fakeAPI) ListPosts(ctx context.Context) ([]feed.Item, error) {
	f.listCalls++
	if f.listFn == nil {
		return nil, errors.New("unexpected ListPosts call")
	}
	return f.listFn(ctx)
}

func (f *fakeAPI) CreatePost(ctx context.Context, content string) error {
	f.createCalls++
	if f.createFn == nil {
		return errors.New("unexpected CreatePost call")
	}
	return f.createFn(ctx, content)
}

func (f *fakeAPI) DeletePost(ctx context.Context, id int64) error {
	f.deleteCalls++
	if f.deleteFn == nil {
		return errors.New("unexpected DeletePost call")
	}
	return f.deleteFn(ctx, id)
}

// fakeCreds is an in-memory credential store; saveErr and clearErr make
// storage unavailability reproducible.
type fakeCreds struct {
	token    string
	saveErr  error
	clearErr error
}

func (f *fakeCreds) Save(token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.token = token
	return nil
}

func (f *fakeCreds) Load() (string, bool) { return f.token, f.token != "" }

func (f *fakeCreds) Clear() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.token = ""
	return nil
}

// fakeCache records snapshots in memory.
type fakeCache struct {
	snapshot  []feed.Item
	saveCalls int
	saveErr   error
	loadErr   error
}

func (f *fakeCache) SaveSnapshot(items []feed.Item) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshot = feed.CloneList(items)
	return nil
}

func (f *fakeCache) LoadSnapshot() ([]feed.Item, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return feed.CloneList(f.snapshot), nil
}

func (f *fakeCache) Clear() error {
	f.snapshot = nil
	return nil
}
