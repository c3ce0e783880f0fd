package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageStartsAtZero(t *testing.T) {
	repos := newTestRepos(t)

	count, err := repos.Usage.GetPrompts(context.Background(), "user-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIncrementPrompts(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	for want := 1; want <= 3; want++ {
		count, err := repos.Usage.IncrementPrompts(ctx, "user-1", now)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	count, err := repos.Usage.GetPrompts(ctx, "user-1", now)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUsageBucketedByMonth(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	may := time.Date(2026, 5, 31, 23, 50, 0, 0, time.UTC)
	june := time.Date(2026, 6, 1, 0, 10, 0, 0, time.UTC)

	_, err := repos.Usage.IncrementPrompts(ctx, "user-1", may)
	require.NoError(t, err)

	count, err := repos.Usage.GetPrompts(ctx, "user-1", june)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUsageIsolatedPerSubject(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repos.Usage.IncrementPrompts(ctx, "user-1", now)
	require.NoError(t, err)

	count, err := repos.Usage.GetPrompts(ctx, "user-2", now)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
