package threads

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/pulse/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Service, n int) []*Thread {
	t.Helper()
	out := make([]*Thread, 0, n)
	for i := 0; i < n; i++ {
		th, err := s.Create(context.Background(), Author{ID: 1, Username: "ann"}, fmt.Sprintf("t%d", i), "body")
		require.NoError(t, err)
		out = append(out, th)
	}
	return out
}

func TestService_ListPaginatesNewestFirst(t *testing.T) {
	s := NewService(NewMemoryRepository())
	seed(t, s, 5)
	ctx := context.Background()

	p1, err := s.List(ctx, 1, 1, 2)
	require.NoError(t, err)
	require.Len(t, p1.Items, 2)
	assert.Equal(t, "t4", p1.Items[0].Title)
	assert.Equal(t, "t3", p1.Items[1].Title)
	assert.Equal(t, Meta{TotalItems: 5, ItemCount: 2, ItemsPerPage: 2, TotalPages: 3, CurrentPage: 1}, p1.Meta)

	p3, err := s.List(ctx, 1, 3, 2)
	require.NoError(t, err)
	require.Len(t, p3.Items, 1)
	assert.Equal(t, "t0", p3.Items[0].Title)

	p4, err := s.List(ctx, 1, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, p4.Items)
}

func TestService_ListClampsArguments(t *testing.T) {
	s := NewService(NewMemoryRepository())
	seed(t, s, 1)

	p, err := s.List(context.Background(), 1, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Meta.CurrentPage)
	assert.Equal(t, MaxPageSize, p.Meta.ItemsPerPage)
}

func TestService_Subscriptions(t *testing.T) {
	s := NewService(NewMemoryRepository())
	th := seed(t, s, 1)[0]
	ctx := context.Background()

	require.NoError(t, s.Subscribe(ctx, th.ID, 7))
	require.NoError(t, s.Subscribe(ctx, th.ID, 7))
	require.NoError(t, s.Subscribe(ctx, th.ID, 8))

	p, err := s.List(ctx, 7, 1, 10)
	require.NoError(t, err)
	assert.True(t, p.Items[0].IsSubscribed)
	assert.Equal(t, 2, p.Items[0].SubscriberCount)

	require.NoError(t, s.Unsubscribe(ctx, th.ID, 7))
	p, err = s.List(ctx, 7, 1, 10)
	require.NoError(t, err)
	assert.False(t, p.Items[0].IsSubscribed)
	assert.Equal(t, 1, p.Items[0].SubscriberCount)

	assert.ErrorIs(t, s.Subscribe(ctx, "missing", 7), common.ErrorNotFound)
	assert.ErrorIs(t, s.Unsubscribe(ctx, "missing", 7), common.ErrorNotFound)
}
