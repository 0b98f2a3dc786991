// Package threads implements the feed of the threads API.
package threads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pulse/internal/common"
	"github.com/google/uuid"
)

const MaxPageSize = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, author Author, title, content string) (*Thread, error) {
	thread := &Thread{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, thread)
	if err != nil {
		return nil, fmt.Errorf("error creating thread: %w", err)
	}
	return created, nil
}

// List returns page (1-based) of the feed as seen by viewerID.
func (s *Service) List(ctx context.Context, viewerID int64, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing threads: %w", err)
	}

	for i := range items {
		subs, err := s.repo.Subscribers(ctx, items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("error loading subscribers: %w", err)
		}
		_, items[i].IsSubscribed = subs[viewerID]
		items[i].SubscriberCount = len(subs)
	}

	return &Page{
		Items: items,
		Meta: Meta{
			TotalItems:   total,
			ItemCount:    len(items),
			ItemsPerPage: limit,
			TotalPages:   (total + limit - 1) / limit,
			CurrentPage:  page,
		},
	}, nil
}

// Subscribe is idempotent; an unknown thread yields common.ErrorNotFound.
func (s *Service) Subscribe(ctx context.Context, threadID string, userID int64) error {
	if err := s.repo.Subscribe(ctx, threadID, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error subscribing: %w", err)
	}
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, threadID string, userID int64) error {
	if err := s.repo.Unsubscribe(ctx, threadID, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error unsubscribing: %w", err)
	}
	return nil
}
