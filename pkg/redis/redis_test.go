package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	host, port, found := strings.Cut(mr.Addr(), ":")
	require.True(t, found)

	client := NewClient(config.RedisConfig{Host: host, Port: port})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClient(t *testing.T) {
	client, _ := newTestClient(t)

	require.NotNil(t, client.GetClient())
	assert.True(t, client.IsConnected())
}

func TestHealthCheck(t *testing.T) {
	client, _ := newTestClient(t)

	status := client.HealthCheck()

	assert.True(t, status.IsConnected)
	assert.NotEmpty(t, status.ConnectionInfo)
	assert.False(t, status.LastPing.IsZero())
}

func TestHealthCheck_ServerDown(t *testing.T) {
	client, mr := newTestClient(t)

	mr.Close()

	status := client.HealthCheck()

	assert.False(t, status.IsConnected)
	assert.NotEmpty(t, status.Error)
}

func TestRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	err := client.GetClient().Set(ctx, "greeting", "hello", time.Minute).Err()
	require.NoError(t, err)

	val, err := client.GetClient().Get(ctx, "greeting").Result()
	require.NoError(t, err)
	assert.Equal(t, "hello", val)
}
