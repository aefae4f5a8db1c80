package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPaged_ConcatenatesFullPages(t *testing.T) {
	// 2350 rows behind a 1000-row ceiling: three requests, no truncation.
	total := 2350
	pageSize := 1000
	var calls int

	rows, err := listPaged(context.Background(), pageSize, func(_ context.Context, limit, offset int) ([]int, error) {
		calls++
		var batch []int
		for i := offset; i < offset+limit && i < total; i++ {
			batch = append(batch, i)
		}
		return batch, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, rows, total)
	assert.Equal(t, 0, rows[0])
	assert.Equal(t, total-1, rows[total-1])
}

func TestListPaged_ExactMultipleIssuesTrailingRequest(t *testing.T) {
	// A result set that is an exact multiple of the page size needs one
	// extra empty page to prove completeness.
	var calls int
	rows, err := listPaged(context.Background(), 10, func(_ context.Context, limit, offset int) ([]int, error) {
		calls++
		if offset >= 20 {
			return nil, nil
		}
		batch := make([]int, limit)
		return batch, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, rows, 20)
}

func TestListPaged_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := listPaged(context.Background(), 10, func(_ context.Context, _, offset int) ([]int, error) {
		if offset > 0 {
			return nil, boom
		}
		return make([]int, 10), nil
	})
	assert.ErrorIs(t, err, boom)
}
