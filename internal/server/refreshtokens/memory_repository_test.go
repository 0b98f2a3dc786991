package refreshtokens

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/pulse/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Rotate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	require.NoError(t, r.Create(ctx, 7, "old", time.Hour))

	rt, err := r.Rotate(ctx, "old", "new", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rt.UserID)
	assert.Equal(t, "old", rt.Token)

	_, err = r.Find(ctx, "old")
	require.ErrorIs(t, err, common.ErrorNotFound)

	next, err := r.Find(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, int64(7), next.UserID)

	_, err = r.Rotate(ctx, "old", "other", time.Hour)
	require.ErrorIs(t, err, common.ErrorNotFound, "a consumed token cannot rotate again")
	_, err = r.Find(ctx, "other")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_RotateExpired(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	require.NoError(t, r.Create(ctx, 7, "old", -time.Second))

	_, err := r.Rotate(ctx, "old", "new", time.Hour)
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)

	_, err = r.Find(ctx, "old")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.Find(ctx, "new")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
