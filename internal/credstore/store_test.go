package credstore_test

import (
	"context"
	"testing"

	"github.com/relaydesk/discord-relay/internal/credstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMem_GetNonExistent(t *testing.T) {
	m := credstore.NewMem()
	got, err := m.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMem_PutAndGet(t *testing.T) {
	m := credstore.NewMem()
	ctx := context.Background()

	cfg := credstore.TenantConfig{
		ApplicationID: "app-1",
		PublicKey:     "abcd",
		BotToken:      "tok-1",
	}
	require.NoError(t, m.Put(ctx, "app-1", cfg))

	got, err := m.Get(ctx, "app-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cfg, *got)
}

func TestMem_PutOverwrites(t *testing.T) {
	m := credstore.NewMem()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "app-1", credstore.TenantConfig{
		ApplicationID: "app-1", PublicKey: "key-old", BotToken: "tok-old",
	}))
	require.NoError(t, m.Put(ctx, "app-1", credstore.TenantConfig{
		ApplicationID: "app-1", PublicKey: "key-new", BotToken: "tok-new",
	}))

	got, err := m.Get(ctx, "app-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	// Full overwrite, not a merge
	assert.Equal(t, "key-new", got.PublicKey)
	assert.Equal(t, "tok-new", got.BotToken)
}

func TestMem_GetReturnsCopy(t *testing.T) {
	m := credstore.NewMem()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "app-1", credstore.TenantConfig{
		ApplicationID: "app-1", PublicKey: "key", BotToken: "tok",
	}))

	got, _ := m.Get(ctx, "app-1")
	got.BotToken = "mutated"

	again, _ := m.Get(ctx, "app-1")
	assert.Equal(t, "tok", again.BotToken)
}

func TestTenantConfig_Complete(t *testing.T) {
	assert.True(t, credstore.TenantConfig{
		ApplicationID: "a", PublicKey: "b", BotToken: "c",
	}.Complete())

	assert.False(t, credstore.TenantConfig{PublicKey: "b", BotToken: "c"}.Complete())
	assert.False(t, credstore.TenantConfig{ApplicationID: "a", BotToken: "c"}.Complete())
	assert.False(t, credstore.TenantConfig{ApplicationID: "a", PublicKey: "b"}.Complete())
	assert.False(t, credstore.TenantConfig{}.Complete())
}
