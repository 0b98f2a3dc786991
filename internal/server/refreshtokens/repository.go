// Package refreshtokens stores the opaque refresh tokens handed out by the
// threads API.
package refreshtokens

import (
	"context"
	"time"
)

type RefreshToken struct {
	Token     string
	UserID    int64
	Expires   time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error
	// Find returns common.ErrorNotFound for unknown or revoked tokens.
	Find(ctx context.Context, token string) (*RefreshToken, error)
	// Rotate consumes token and stores next for the same user in one step.
	// It returns the consumed record, common.ErrorNotFound for unknown tokens
	// and common.ErrRefreshTokenExpired (after dropping it) for expired ones.
	Rotate(ctx context.Context, token, next string, validity time.Duration) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteAll(ctx context.Context) error
}
