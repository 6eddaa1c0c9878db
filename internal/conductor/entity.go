// AngelaMos | 2026
// entity.go

package conductor

import (
	"time"
)

// Conductor is a driver on a tenant's roster. Deactivated conductors keep
// their row so historical deliveries still resolve a name.
type Conductor struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Name         string    `db:"name"`
	Phone        *string   `db:"phone"`
	Email        *string   `db:"email"`
	VehicleType  *string   `db:"vehicle_type"`
	LicensePlate *string   `db:"license_plate"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const MinNameLength = 2
