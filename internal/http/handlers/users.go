package handlers

import (
	"context"

	"github.com/geocoder89/shopapi/internal/domain/user"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
	Update(ctx context.Context, id int64, req user.UpdateRequest) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserStore is satisfied by both the postgres and the in-memory repositories.
type UserStore interface {
	UserReader
	UserWriter
}
