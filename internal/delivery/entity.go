// AngelaMos | 2026
// entity.go

package delivery

import (
	"regexp"
	"time"
)

const (
	TypeSheinTemu = "Shein/Temu"
	TypeDropi     = "Dropi"
)

const (
	StatusPending   = 0
	StatusDelivered = 1
	StatusReturned  = 2
)

// Delivery is one tracked package. ConductorName is filled by a join and
// is not a column of deliveries.
type Delivery struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	ConductorID   string     `db:"conductor_id"`
	ConductorName string     `db:"conductor_name"`
	Tracking      string     `db:"tracking"`
	Type          string     `db:"type"`
	Status        int        `db:"status"`
	DeliveryDate  time.Time  `db:"delivery_date"`
	ReturnedAt    *time.Time `db:"returned_at"`
	Value         float64    `db:"value"`
	Notes         *string    `db:"notes"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

var trackingPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{2,49}$`)

// ValidTracking accepts 3 to 50 letters, digits or hyphens starting with a
// letter or digit.
func ValidTracking(s string) bool {
	return trackingPattern.MatchString(s)
}

func ValidType(t string) bool {
	return t == TypeSheinTemu || t == TypeDropi
}

func ValidStatus(s int) bool {
	return s >= StatusPending && s <= StatusReturned
}

// maxValue is the largest amount numeric(12,2) can hold.
const maxValue = 9999999999.99
