package health

import (
	"context"
	"errors"
	"strings"
	"testing"

	"offerings-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type broker bool

func (b broker) IsConnected() bool { return bool(b) }

func TestCollectHealth_WithNilRedis(t *testing.T) {
	result := CollectHealth(context.Background(), nil, nil, nil)
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["redis"].Status)
	assert.NotContains(t, result.Dependencies, "broker")
	assert.Equal(t, 0, result.Traffic.TotalRequests)
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	result := CollectHealth(ctx, rdb, pinger{}, broker(false))
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.NotNil(t, result.Dependencies["database"].PingMs)
	assert.Equal(t, "disconnected", result.Dependencies["broker"].Status)
	assert.Equal(t, "100", result.Traffic.SuccessRate)
	assert.True(t, mr.Exists(middleware.KeyStartTime))

	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqErrors, "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResTime, "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResCount, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyStartTime, "1000000", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyLastReq, `{"method":"GET","path":"/api/listings"}`, 0).Err())

	result = CollectHealth(ctx, rdb, pinger{err: errors.New("down")}, broker(true))
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["database"].Status)
	assert.Equal(t, "connected", result.Dependencies["broker"].Status)
	assert.Equal(t, 10, result.Traffic.TotalRequests)
	assert.Equal(t, 2, result.Traffic.FailedCount)
	assert.Equal(t, 8, result.Traffic.SuccessCount)
	assert.Equal(t, "80.0", result.Traffic.SuccessRate)
	assert.Equal(t, "15.05", result.Traffic.AvgResponseTime)
	assert.Greater(t, result.Runtime.UptimeSeconds, int64(0))
	assert.Equal(t, "/api/listings", result.Traffic.LastRequest.(map[string]interface{})["path"])
}

func TestRenderDashboardHTML(t *testing.T) {
	ms := int64(3)
	html, err := RenderDashboardHTML(CollectResult{
		Status: "issue",
		Dependencies: map[string]DepStatus{
			"redis":    {Status: "connected", PingMs: &ms},
			"database": {Status: "error"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "System Issues Detected")
	assert.Contains(t, html, "3 ms")
	assert.Less(t, strings.Index(html, "database"), strings.Index(html, "redis"))
}
