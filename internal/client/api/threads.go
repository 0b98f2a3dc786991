package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
	"github.com/dmitrijs2005/pulse/internal/client/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type ThreadsAPI interface {
	List(ctx context.Context, page, limit int) (*models.Page[models.Thread], error)
	Create(ctx context.Context, in models.CreateThreadInput) (*models.Thread, error)
	Subscribe(ctx context.Context, threadID string) error
	Unsubscribe(ctx context.Context, threadID string) error
}

type threadsAPI struct {
	client *apiclient.Client
}

func NewThreadsAPI(c *apiclient.Client) ThreadsAPI {
	return &threadsAPI{client: c}
}

// List fetches one feed page. Non-positive arguments fall back to the defaults.
func (a *threadsAPI) List(ctx context.Context, page, limit int) (*models.Page[models.Thread], error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	env, err := apiclient.Get[models.Page[models.Thread]](ctx, a.client, "/thread/all?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *threadsAPI) Create(ctx context.Context, in models.CreateThreadInput) (*models.Thread, error) {
	env, err := apiclient.Post[models.Thread](ctx, a.client, "/thread", in)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *threadsAPI) Subscribe(ctx context.Context, threadID string) error {
	_, err := apiclient.Post[json.RawMessage](ctx, a.client, subscribePath(threadID), struct{}{})
	return err
}

func (a *threadsAPI) Unsubscribe(ctx context.Context, threadID string) error {
	_, err := apiclient.Delete[json.RawMessage](ctx, a.client, subscribePath(threadID))
	return err
}

func subscribePath(threadID string) string {
	return fmt.Sprintf("/thread/%s/subscribe", url.PathEscape(threadID))
}
