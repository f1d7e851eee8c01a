package memory

import (
	"context"
	"sync"
	"time"

	"github.com/userhub/userhub/internal/domain/user"
)

// UsersRepo is the test-mode credential store: a mutex-guarded map with
// the same uniqueness semantics the Postgres schema enforces.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// login first, then email, to keep the error precedence stable
	for _, existing := range r.items {
		if existing.Login == u.Login {
			return "", user.ErrDuplicateLogin
		}
	}

	for _, existing := range r.items {
		if existing.Email == u.Email {
			return "", user.ErrDuplicateEmail
		}
	}

	r.items[u.ID] = u

	return u.ID, nil
}

func (r *UsersRepo) GetByLogin(ctx context.Context, login string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Login == login {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[u.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}

	for _, existing := range r.items {
		if existing.ID != u.ID && existing.Email == u.Email {
			return user.User{}, user.ErrDuplicateEmail
		}
	}

	u.UpdatedAt = time.Now().UTC()
	r.items[u.ID] = u

	return u, nil
}
