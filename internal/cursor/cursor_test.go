package cursor_test

import (
	"context"
	"testing"

	"github.com/relaydesk/discord-relay/internal/cursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMem_GetUnset(t *testing.T) {
	m := cursor.NewMem()
	id, err := m.Get(context.Background(), "app-1", "chan-1")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestMem_SetAndGet(t *testing.T) {
	m := cursor.NewMem()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "app-1", "chan-1", 100))
	id, err := m.Get(ctx, "app-1", "chan-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), id)

	// Channels are independent
	id, err = m.Get(ctx, "app-1", "chan-2")
	require.NoError(t, err)
	assert.Zero(t, id)

	// Tenants are independent
	id, err = m.Get(ctx, "app-2", "chan-1")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestMem_Advance(t *testing.T) {
	m := cursor.NewMem()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "app-1", "chan-1", 100))
	require.NoError(t, m.Set(ctx, "app-1", "chan-1", 250))

	id, err := m.Get(ctx, "app-1", "chan-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(250), id)
}
