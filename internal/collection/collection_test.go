package collection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nkaewam/catalogctl/internal/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRefreshReplacesItems(t *testing.T) {
	calls := 0
	c := collection.New("banners", func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return []string{"a", "b"}, nil
		}
		return []string{"c"}, nil
	}, zap.NewNop())

	assert.False(t, c.Loaded())

	items, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.True(t, c.Loaded())

	require.NoError(t, c.Sync(context.Background()))
	assert.Equal(t, []string{"c"}, c.Items())
	assert.False(t, c.FetchedAt().IsZero())
}

func TestRefreshFailureKeepsLastGood(t *testing.T) {
	fail := false
	boom := errors.New("503 service unavailable")
	c := collection.New("products", func(ctx context.Context) ([]int, error) {
		if fail {
			return nil, boom
		}
		return []int{1, 2, 3}, nil
	}, zap.NewNop())

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	items, err := c.Refresh(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2, 3}, items)
	assert.Equal(t, []int{1, 2, 3}, c.Items())
	assert.ErrorIs(t, c.Err(), boom)

	fail = false
	_, err = c.Refresh(context.Background())
	require.NoError(t, err)
	assert.NoError(t, c.Err())
}

func TestItemsIsACopy(t *testing.T) {
	c := collection.New("x", func(ctx context.Context) ([]string, error) {
		return []string{"a"}, nil
	}, zap.NewNop())
	require.NoError(t, c.Sync(context.Background()))

	items := c.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"a"}, c.Items())
}

func TestEmptyResultIsNotNil(t *testing.T) {
	c := collection.New("x", func(ctx context.Context) ([]string, error) {
		return nil, nil
	}, zap.NewNop())
	items, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
