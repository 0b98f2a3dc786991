package threads

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/pulse/internal/common"
)

type MemoryRepository struct {
	mu          sync.RWMutex
	threads     []*Thread // oldest first
	byID        map[string]*Thread
	subscribers map[string]map[int64]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:        make(map[string]*Thread),
		subscribers: make(map[string]map[int64]struct{}),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, thread *Thread) (*Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[thread.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	t := *thread
	r.threads = append(r.threads, &t)
	r.byID[t.ID] = &t

	out := t
	return &out, nil
}

func (r *MemoryRepository) List(ctx context.Context, offset, limit int) ([]Thread, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.threads)
	out := make([]Thread, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.threads[i])
	}
	return out, total, nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context, threadID string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[threadID]; !ok {
		return common.ErrorNotFound
	}
	subs, ok := r.subscribers[threadID]
	if !ok {
		subs = make(map[int64]struct{})
		r.subscribers[threadID] = subs
	}
	subs[userID] = struct{}{}
	return nil
}

func (r *MemoryRepository) Unsubscribe(ctx context.Context, threadID string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[threadID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.subscribers[threadID], userID)
	return nil
}

func (r *MemoryRepository) Subscribers(ctx context.Context, threadID string) (map[int64]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]struct{}, len(r.subscribers[threadID]))
	for id := range r.subscribers[threadID] {
		out[id] = struct{}{}
	}
	return out, nil
}
