package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulse/internal/common"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]RefreshToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]RefreshToken)}
}

func (r *MemoryRepository) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	now := time.Now()
	r.mu.Lock()
	r.tokens[token] = RefreshToken{Token: token, UserID: userID, Expires: now.Add(validity), CreatedAt: now}
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) Rotate(ctx context.Context, token, next string, validity time.Duration) (*RefreshToken, error) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.tokens, token)
	if now.After(t.Expires) {
		return nil, common.ErrRefreshTokenExpired
	}

	r.tokens[next] = RefreshToken{Token: next, UserID: t.UserID, Expires: now.Add(validity), CreatedAt: now}
	return &t, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	delete(r.tokens, token)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	r.tokens = make(map[string]RefreshToken)
	r.mu.Unlock()
	return nil
}
