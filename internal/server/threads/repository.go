package threads

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, thread *Thread) (*Thread, error)
	// List returns threads newest first, skipping offset and returning at most limit,
	// together with the total count.
	List(ctx context.Context, offset, limit int) ([]Thread, int, error)
	Subscribe(ctx context.Context, threadID string, userID int64) error
	Unsubscribe(ctx context.Context, threadID string, userID int64) error
	Subscribers(ctx context.Context, threadID string) (map[int64]struct{}, error)
}
