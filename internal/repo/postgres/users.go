package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/userhub/userhub/internal/domain/user"
	"github.com/userhub/userhub/internal/observability"
)

// Constraint names from the users migration. The unique indexes are the
// real duplicate guard; lookups done before insert only decide which
// error message wins.
const (
	loginConstraint = "users_login_key"
	emailConstraint = "users_email_key"
)

const userColumns = `id, login, email, password_hash, first_name, last_name, birth_date, phone, created_at, updated_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveDB(op, fn)
}

// Create inserts the user and returns its id. A unique violation that
// races past the service's existence checks still comes back as the
// matching duplicate error.
func (r *UsersRepo) Create(ctx context.Context, u user.User) (string, error) {
	err := r.observe("users.create", func() error {
		_, e := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, u.ID, u.Login, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.BirthDate, u.Phone, u.CreatedAt, u.UpdatedAt)
		return e
	})

	if err != nil {
		return "", translateUnique(err)
	}

	return u.ID, nil
}

func (r *UsersRepo) GetByLogin(ctx context.Context, login string) (user.User, error) {
	return r.getWhere(ctx, "users.get_by_login", `login = $1`, login)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getWhere(ctx, "users.get_by_email", `email = $1`, email)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getWhere(ctx, "users.get_by_id", `id = $1`, id)
}

func (r *UsersRepo) getWhere(ctx context.Context, op, where string, arg any) (user.User, error) {
	var u user.User

	err := r.observe(op, func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+` FROM users WHERE `+where,
			arg,
		).Scan(
			&u.ID,
			&u.Login,
			&u.Email,
			&u.PasswordHash,
			&u.FirstName,
			&u.LastName,
			&u.BirthDate,
			&u.Phone,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// Update persists the mutable fields of an existing record. The updated
// timestamp is recomputed here; whatever the caller put in UpdatedAt is
// ignored. Login and password hash are never written by this path.
func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	u.UpdatedAt = time.Now().UTC()

	err := r.observe("users.update", func() error {
		tag, e := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, birth_date = $5, phone = $6, updated_at = $7
		WHERE id = $1
	`, u.ID, u.Email, u.FirstName, u.LastName, u.BirthDate, u.Phone, u.UpdatedAt)

		if e != nil {
			return e
		}

		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}

		return nil
	})

	if err != nil {
		return user.User{}, translateUnique(err)
	}

	return u, nil
}

func translateUnique(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case loginConstraint:
			return user.ErrDuplicateLogin
		case emailConstraint:
			return user.ErrDuplicateEmail
		}
	}

	return err
}
