package services

import "context"

// SessionStore yields the signed-in user. *session.Store implements it.
type SessionStore interface {
	Get(ctx context.Context) (int64, bool, error)
	Set(ctx context.Context, userID int64) error
	Clear(ctx context.Context) error
}

// discard drops a result computed after ctx ended.
func discard[T any](ctx context.Context, v T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
