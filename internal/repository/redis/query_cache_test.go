package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

func exerciseCache(t *testing.T, c QueryCache) {
	ctx := context.Background()

	_, ok, err := c.GetZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.False(t, ok)

	zones := []models.Zone{{ID: "zone_a", Open: true, AvailableForVisitors: 4}}
	require.NoError(t, c.SetZones(ctx, "gate_1", zones))

	got, ok, err := c.GetZones(ctx, "gate_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, zones, got)

	_, ok, err = c.GetZones(ctx, "gate_2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateZones(ctx, "gate_1"))
	_, ok, err = c.GetZones(ctx, "gate_1")
	require.NoError(t, err)
	assert.False(t, ok)

	gates := []models.Gate{{ID: "gate_1", ZoneIDs: []string{"zone_a"}}}
	require.NoError(t, c.SetGates(ctx, gates))
	gotGates, ok, err := c.GetGates(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, gates, gotGates)
}

func TestMemoryQueryCache(t *testing.T) {
	exerciseCache(t, NewMemoryQueryCache(5*time.Minute, clock.Real()))
}

func TestMemoryQueryCache_Expires(t *testing.T) {
	fc := clock.Fake(time.Unix(0, 0))
	c := NewMemoryQueryCache(5*time.Minute, fc)
	ctx := context.Background()

	require.NoError(t, c.SetGates(ctx, []models.Gate{{ID: "gate_1"}}))

	fc.Advance(4 * time.Minute)
	_, ok, _ := c.GetGates(ctx)
	assert.True(t, ok)

	fc.Advance(time.Minute)
	_, ok, _ = c.GetGates(ctx)
	assert.False(t, ok)
}

func TestRedisQueryCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	cli := redis.NewClient(&redis.Options{Addr: addr})
	defer cli.Close()
	require.NoError(t, cli.Ping(context.Background()).Err())
	cli.Del(context.Background(), gatesKey(), zonesKey("gate_1"), zonesKey("gate_2"))

	exerciseCache(t, NewRedisQueryCache(cli, time.Minute, logger.InitializeTestZapLogger()))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "parkgate:query:gates", gatesKey())
	assert.Equal(t, "parkgate:query:zones:gate_1", zonesKey("gate_1"))
}
