// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/barulogix/barulogix-api/internal/core"
)

type Handler struct {
	overview   Overview
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
}

type HandlerConfig struct {
	Overview   Overview
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		overview:   cfg.Overview,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/stats", h.GetPlatformStats)
		r.Get("/admin/stats/db", h.GetDatabaseStats)
		r.Get("/admin/stats/redis", h.GetRedisStats)
		r.Get("/admin/stats/runtime", h.GetRuntimeStats)
	})
}

// GetPlatformStats answers with business totals across every tenant plus
// the state of the process and its pools.
func (h *Handler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	business, err := h.collectBusiness(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PlatformStatsResponse{
		Users:      business.users,
		Conductors: business.conductors,
		Deliveries: business.deliveries,
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: pingOK(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	})
}

type businessTotals struct {
	users      UserTotals
	conductors ConductorTotals
	deliveries DeliveryTotals
}

func (h *Handler) collectBusiness(ctx context.Context) (*businessTotals, error) {
	var out businessTotals

	byStatus, err := h.overview.UsersBy(ctx, "subscription_status")
	if err != nil {
		return nil, err
	}
	byPlan, err := h.overview.UsersBy(ctx, "plan")
	if err != nil {
		return nil, err
	}
	out.users = UserTotals{
		Total:    sumCounts(byStatus),
		ByStatus: byStatus,
		ByPlan:   byPlan,
	}

	out.conductors, err = h.overview.ConductorCounts(ctx)
	if err != nil {
		return nil, err
	}

	deliveries, err := h.overview.DeliveriesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := h.overview.ReportCount(ctx)
	if err != nil {
		return nil, err
	}
	out.deliveries = DeliveryTotals{
		Total:    sumCounts(deliveries),
		ByStatus: deliveries,
		Reports:  reports,
	}

	return &out, nil
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

func pingOK(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}
