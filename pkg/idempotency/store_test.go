package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeenAfterMark(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	seen, err := s.Seen(ctx, Key("checkout", "abc"))
	require.NoError(t, err)
	assert.False(t, seen)

	// Seen does not consume the key: checking is free.
	seen, err = s.Seen(ctx, Key("checkout", "abc"))
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, s.Mark(ctx, Key("checkout", "abc")))

	seen, err = s.Seen(ctx, Key("checkout", "abc"))
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = s.Seen(ctx, Key("checkout", "def"))
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore(time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Mark(ctx, "k"))

	time.Sleep(5 * time.Millisecond)
	seen, err := s.Seen(ctx, "k")
	require.NoError(t, err)
	assert.False(t, seen, "expired keys are seen again")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "idem:notify:ORD-1", Key("notify", "ORD-1"))
}
