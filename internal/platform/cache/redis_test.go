package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenEmbedded(t *testing.T) {
	store, err := Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.True(t, store.Embedded())
	require.NoError(t, store.Client.Set(context.Background(), "k", "v", 0).Err())
	got, err := store.Client.Get(context.Background(), "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestOpenExternal(t *testing.T) {
	srv := miniredis.RunT(t)
	store, err := Open(context.Background(), srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	assert.False(t, store.Embedded())
}

func TestOpenUnreachable(t *testing.T) {
	_, err := Open(context.Background(), "127.0.0.1:1")
	assert.Error(t, err)
}
