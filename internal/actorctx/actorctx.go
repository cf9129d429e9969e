package actorctx

import "context"

type ctxKey struct{}

// Identity is what the access gate learned from a verified token.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKey{}).(Identity)

	return v, ok && v.UserID > 0
}
