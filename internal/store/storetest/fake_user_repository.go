package storetest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
)

// FakeUserRepository is an in-memory store.UserRepository enforcing the
// same email/username uniqueness the Postgres schema does.
type FakeUserRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]user.User
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{byID: make(map[uuid.UUID]user.User)}
}

func (f *FakeUserRepository) Get(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, domainerr.NotFound("user not found")
	}
	return u, nil
}

func (f *FakeUserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, domainerr.NotFound("user not found")
}

func (f *FakeUserRepository) GetByUsername(_ context.Context, username string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, domainerr.NotFound("user not found")
}

func (f *FakeUserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return user.User{}, domainerr.Conflict("email or username already taken")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.byID[u.ID] = u
	return u, nil
}

var _ store.UserRepository = (*FakeUserRepository)(nil)
