package users

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulse/internal/common"
)

// ConflictError reports which unique field rejected a new user.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return common.ErrorAlreadyExists }

type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*User
	byName  map[string]int64
	byEmail map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[int64]*User),
		byName:  make(map[string]int64),
		byEmail: make(map[string]int64),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	name := strings.ToLower(user.UserName)
	email := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return nil, &ConflictError{Field: "username"}
	}
	if _, ok := r.byEmail[email]; ok {
		return nil, &ConflictError{Field: "email"}
	}

	r.nextID++
	u := *user
	u.ID = r.nextID
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true

	r.byID[u.ID] = &u
	r.byName[name] = u.ID
	r.byEmail[email] = u.ID

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	key := strings.ToLower(login)

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[key]
	if !ok {
		id, ok = r.byEmail[key]
	}
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *r.byID[id]
	return &out, nil
}
