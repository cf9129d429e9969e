package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, name, role, phone, city, avatar, email_verified, created_at, updated_at`

// DBTX is the part of pgxpool.Pool the repositories need; pgxmock satisfies it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Observer interface {
	ObserveDB(op string, fn func() error) error
}

type UsersRepo struct {
	db  DBTX
	obs Observer
}

// NewUsersRepo builds the repository. obs may be nil.
func NewUsersRepo(db DBTX, obs Observer) *UsersRepo {
	return &UsersRepo{db: db, obs: obs}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.obs == nil {
		return fn()
	}
	return r.obs.ObserveDB(op, fn)
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return scanUser(r.db.QueryRow(
			ctx,
			`INSERT INTO users (email, password_hash, name, role)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+userColumns,
			email, passwordHash, name, role,
		), &u)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return scanUser(r.db.QueryRow(
			ctx,
			`SELECT `+userColumns+`
			 FROM users
			 WHERE email = $1`,
			email,
		), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return scanUser(r.db.QueryRow(
			ctx,
			`SELECT `+userColumns+`
			 FROM users
			 WHERE id = $1`,
			id,
		), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	users := make([]user.User, 0)

	err := r.observe("users.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			if err := scanUser(rows, &u); err != nil {
				return err
			}
			users = append(users, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return users, nil
}

// Update applies a partial update in one statement; absent fields keep their value.
func (r *UsersRepo) Update(ctx context.Context, id int64, req user.UpdateRequest) (user.User, error) {
	var u user.User

	err := r.observe("users.update", func() error {
		return scanUser(r.db.QueryRow(
			ctx,
			`UPDATE users
			 SET name = COALESCE($2, name),
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+userColumns,
			id, req.Name,
		), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("users.delete", func() error {
		var err error
		tag, err = r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.Phone,
		&u.City,
		&u.Avatar,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
