package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"offerings-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional. If nil, the database is reported as disconnected.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// BrokerStatus reports the notification broker connection, when one is configured.
type BrokerStatus interface {
	IsConnected() bool
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapUsed int `json:"heapUsed"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime string      `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

const (
	statusConnected    = "connected"
	statusDisconnected = "disconnected"
	statusError        = "error"
)

// CollectHealth gathers dependency status plus the traffic counters written by
// middleware.HealthMarker. The database and Redis decide the overall status; the
// broker is informational.
func CollectHealth(ctx context.Context, rdb redis.Cmdable, db DBPinger, broker BrokerStatus) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus)}

	dbDep := DepStatus{Status: statusDisconnected}
	if db != nil {
		dbDep = timed(func() error { return db.Ping(ctx) })
	}
	result.Dependencies["database"] = dbDep

	redisDep := DepStatus{Status: statusDisconnected}
	traffic := TrafficInfo{AvgResponseTime: "0", SuccessRate: "100"}
	startMs := time.Now().UnixMilli()
	if rdb != nil {
		redisDep = timed(func() error { return rdb.Ping(ctx).Err() })
		if redisDep.Status == statusConnected {
			startMs = readTraffic(ctx, rdb, &traffic, startMs)
		}
	}
	result.Dependencies["redis"] = redisDep

	if broker != nil {
		st := statusDisconnected
		if broker.IsConnected() {
			st = statusConnected
		}
		result.Dependencies["broker"] = DepStatus{Status: st}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}
	result.Traffic = traffic

	result.Status = "issue"
	if dbDep.Status == statusConnected && redisDep.Status == statusConnected {
		result.Status = "ok"
	}
	return result
}

func timed(ping func() error) DepStatus {
	start := time.Now()
	if err := ping(); err != nil {
		return DepStatus{Status: statusError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: statusConnected, PingMs: &ms}
}

// readTraffic fills t from Redis and returns the recorded start time, seeding it on first use.
func readTraffic(ctx context.Context, rdb redis.Cmdable, t *TrafficInfo, nowMs int64) int64 {
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		return nowMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	t.TotalRequests, _ = strconv.Atoi(str(0))
	t.FailedCount, _ = strconv.Atoi(str(1))
	t.SuccessCount = t.TotalRequests - t.FailedCount
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	count, _ := strconv.Atoi(str(3))
	if count > 0 {
		t.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if last := str(5); last != "" {
		var req map[string]interface{}
		if json.Unmarshal([]byte(last), &req) == nil {
			t.LastRequest = req
		}
	}

	startMs := nowMs
	if s := str(4); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			startMs = v
		}
	} else {
		rdb.Set(ctx, middleware.KeyStartTime, nowMs, 0)
	}
	return startMs
}
