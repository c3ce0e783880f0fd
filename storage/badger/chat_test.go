package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/storage"
)

func TestCreateAndGetSession(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	session, err := repos.Chat.CreateSession(ctx, "user-1")
	require.NoError(t, err)
	assert.NotZero(t, session.Id)
	assert.Equal(t, "user-1", session.Owner)

	stored, err := repos.Chat.GetSession(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, session.Id, stored.Id)
	assert.Equal(t, "user-1", stored.Owner)
}

func TestCreateSessionRequiresOwner(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Chat.CreateSession(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrEmptyOwner)
}

func TestGetSessionNotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Chat.GetSession(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddExchangeRequiresSession(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Chat.AddExchange(context.Background(), &core.Exchange{
		SessionId: 404,
		Owner:     "user-1",
		Query:     "anything?",
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExchangesOrderedByCreation(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	session, err := repos.Chat.CreateSession(ctx, "user-1")
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	queries := []string{"first?", "second?", "third?"}
	for i, q := range queries {
		_, err := repos.Chat.AddExchange(ctx, &core.Exchange{
			SessionId: session.Id,
			Owner:     "user-1",
			Query:     q,
			Answer:    "answer",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	exchanges, err := repos.Chat.GetExchanges(ctx, session.Id)
	require.NoError(t, err)
	require.Len(t, exchanges, 3)
	for i, exchange := range exchanges {
		assert.Equal(t, queries[i], exchange.Query)
	}
}

func TestExchangesIsolatedPerSession(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	first, err := repos.Chat.CreateSession(ctx, "user-1")
	require.NoError(t, err)
	second, err := repos.Chat.CreateSession(ctx, "user-2")
	require.NoError(t, err)

	_, err = repos.Chat.AddExchange(ctx, &core.Exchange{
		SessionId: first.Id,
		Owner:     "user-1",
		Query:     "mine?",
		Answer:    "yours",
	})
	require.NoError(t, err)

	exchanges, err := repos.Chat.GetExchanges(ctx, second.Id)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}

func TestGetExchangesByDateRange(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	session, err := repos.Chat.CreateSession(ctx, "user-1")
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repos.Chat.AddExchange(ctx, &core.Exchange{
			SessionId: session.Id,
			Owner:     "user-1",
			Query:     "q",
			Answer:    "a",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	// Half-open range covers hours 1 and 2 only.
	got, err := repos.Chat.GetExchangesByDateRange(ctx, session.Id,
		base.Add(1*time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
