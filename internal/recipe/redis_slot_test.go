package recipe

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSlot(t *testing.T) {
	addr := os.Getenv("MOODCHEF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MOODCHEF_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	slot, err := DialRedisSlot(ctx, addr, "", 0)
	require.NoError(t, err)
	defer slot.Close()

	key := "moodchef-test-" + t.Name()
	defer slot.client.Del(ctx, key)

	value, err := slot.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, slot.Put(ctx, key, []byte(`[]`)))
	value, err = slot.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))
}

func TestDialRedisSlot_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DialRedisSlot(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}
