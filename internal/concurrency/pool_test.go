package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBoundedPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results, err := MapBounded(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9, 16, 25}, results)
}

func TestMapBoundedRespectsLimit(t *testing.T) {
	var current, max int32
	items := make([]int, 20)
	_, err := MapBounded(context.Background(), items, 3, func(_ context.Context, _ int) (struct{}, error) {
		c := atomic.AddInt32(&current, 1)
		for {
			m := atomic.LoadInt32(&max)
			if c <= m || atomic.CompareAndSwapInt32(&max, m, c) {
				break
			}
		}
		atomic.AddInt32(&current, -1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, int(max), 3)
}

func TestMapBoundedPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := MapBounded(context.Background(), []int{1, 2, 3}, 2, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	require.ErrorIs(t, err, boom)
}
