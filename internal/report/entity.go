// AngelaMos | 2026
// entity.go

package report

import (
	"time"
)

const (
	TypeGeneral   = "general"
	TypeConductor = "conductor"
)

// Report records one generated report and the filters it was built from.
type Report struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Type        string    `db:"type"`
	Conductor   *string   `db:"conductor_name"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	GeneratedAt time.Time `db:"generated_at"`
}

// Bucket is one row of a grouped aggregate. Type is empty when the query
// groups by status alone.
type Bucket struct {
	Type       string  `db:"type"`
	Status     int     `db:"status"`
	Count      int     `db:"count"`
	TotalValue float64 `db:"total_value"`
}
