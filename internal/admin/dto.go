// AngelaMos | 2026
// dto.go

package admin

type PlatformStatsResponse struct {
	Users      UserTotals      `json:"users"`
	Conductors ConductorTotals `json:"conductors"`
	Deliveries DeliveryTotals  `json:"deliveries"`
	Database   DatabaseStatus  `json:"database"`
	Redis      RedisStatus     `json:"redis"`
	Runtime    RuntimeStats    `json:"runtime"`
}

type UserTotals struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"bySubscriptionStatus"`
	ByPlan   map[string]int `json:"byPlan"`
}

type ConductorTotals struct {
	Active   int `json:"active"   db:"active"`
	Inactive int `json:"inactive" db:"inactive"`
}

// DeliveryTotals keys ByStatus by the numeric status as a string.
type DeliveryTotals struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Reports  int            `json:"reportsGenerated"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
	MaxLifetimeClosed  int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
