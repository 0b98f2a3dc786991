package users

import (
	"context"
)

type Repository interface {
	// Create assigns the id; a taken username or email yields common.ErrorAlreadyExists
	// wrapped in a *ConflictError naming the field.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetUserByLogin matches login against usernames and emails, case-insensitively.
	GetUserByLogin(ctx context.Context, login string) (*User, error)
}
