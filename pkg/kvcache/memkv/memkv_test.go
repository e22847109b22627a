package memkv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "tenant:1:bot_id", "bot-42", 0))

	v, ok, err := s.Get(ctx, "tenant:1:bot_id")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bot-42", v)

	exists, err := s.Exists(ctx, "tenant:1:bot_id")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, "tenant:1:bot_id"))
	_, ok, err = s.Get(ctx, "tenant:1:bot_id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_TTLExpires(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_InvalidatePatternGlob(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "tenant:1:bot_id", "a", 0))
	require.NoError(t, s.Set(ctx, "tenant:1:config", "b", 0))
	require.NoError(t, s.Set(ctx, "tenant:2:bot_id", "c", 0))

	require.NoError(t, s.InvalidatePattern(ctx, "tenant:1:*"))

	_, ok1, _ := s.Get(ctx, "tenant:1:bot_id")
	_, ok2, _ := s.Get(ctx, "tenant:1:config")
	_, ok3, _ := s.Get(ctx, "tenant:2:bot_id")
	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.True(t, ok3)
}

func TestStore_InvalidatePatternExactMatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "tenant:1:bot_id", "a", 0))
	require.NoError(t, s.InvalidatePattern(ctx, "tenant:1:bot_id"))
	_, ok, _ := s.Get(ctx, "tenant:1:bot_id")
	assert.False(t, ok)
}
