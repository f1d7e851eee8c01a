package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/domain/user"
	"github.com/userhub/userhub/internal/security"
)

// UserStore is the persistence surface the service needs. Postgres and
// the in-memory test store both satisfy it.
type UserStore interface {
	Create(ctx context.Context, u user.User) (string, error)
	GetByLogin(ctx context.Context, login string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Service orchestrates registration, login and profile access. It is
// constructed explicitly with its collaborators; no package globals.
type Service struct {
	store  UserStore
	tokens TokenIssuer
}

func NewService(store UserStore, tokens TokenIssuer) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
	}
}

type RegisterRequest struct {
	Login     string
	Password  string
	Email     string
	FirstName *string
	LastName  *string
	BirthDate *string
	Phone     *string
}

// Register creates a new user and returns its generated id.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Login == "" || req.Password == "" || req.Email == "" {
		return "", &user.ValidationError{Reason: "Missing required fields"}
	}

	email := user.NormalizeEmail(req.Email)

	if !user.ValidEmail(email) {
		return "", &user.ValidationError{Reason: "Invalid email format"}
	}

	// Login before email: the first duplicate wins the error message.
	_, err := s.store.GetByLogin(ctx, req.Login)

	if err == nil {
		return "", user.ErrDuplicateLogin
	}
	if !errors.Is(err, user.ErrNotFound) {
		return "", err
	}

	_, err = s.store.GetByEmail(ctx, email)

	if err == nil {
		return "", user.ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return "", err
	}

	var birth *time.Time

	if req.BirthDate != nil && *req.BirthDate != "" {
		d, err := user.ParseBirthDate(*req.BirthDate)

		if err != nil {
			return "", &user.ValidationError{Reason: "Invalid birth date format. Use YYYY-MM-DD"}
		}
		birth = &d
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Login:        req.Login,
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BirthDate:    birth,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.store.Create(ctx, u)
}

// Login verifies credentials and issues a bearer token for the user.
// Unknown login and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	u, err := s.store.GetByLogin(ctx, login)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.ErrInvalidCredentials
		}
		return "", err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return "", user.ErrInvalidCredentials
	}

	return s.tokens.Issue(u.ID)
}

func (s *Service) Profile(ctx context.Context, userID string) (user.Profile, error) {
	u, err := s.store.GetByID(ctx, userID)

	if err != nil {
		return user.Profile{}, err
	}

	return u.Profile(), nil
}

// UpdateProfile applies the fields present in req and persists the
// result. An explicit null clears a free-text field; a field that was
// not sent stays as it is. Any validation failure rejects the whole
// request; nothing is written. Login and password are untouchable here.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.Profile, error) {
	u, err := s.store.GetByID(ctx, userID)

	if err != nil {
		return user.Profile{}, err
	}

	changed := false

	if req.Email != nil {
		email := user.NormalizeEmail(*req.Email)

		if !user.ValidEmail(email) {
			return user.Profile{}, &user.ValidationError{Reason: "Invalid email"}
		}
		u.Email = email
		changed = true
	}

	if req.FirstName.Set {
		u.FirstName = req.FirstName.Value
		changed = true
	}

	if req.LastName.Set {
		u.LastName = req.LastName.Value
		changed = true
	}

	if req.BirthDate != nil {
		d, err := user.ParseBirthDate(*req.BirthDate)

		if err != nil {
			return user.Profile{}, &user.ValidationError{Reason: "Invalid birth date format. Use YYYY-MM-DD"}
		}
		u.BirthDate = &d
		changed = true
	}

	if req.Phone.Set {
		u.Phone = req.Phone.Value
		changed = true
	}

	// no fields sent, nothing to persist: updated_at must not move
	if !changed {
		return u.Profile(), nil
	}

	updated, err := s.store.Update(ctx, u)

	if err != nil {
		return user.Profile{}, err
	}

	return updated.Profile(), nil
}
