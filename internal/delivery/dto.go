// AngelaMos | 2026
// dto.go

package delivery

import (
	"encoding/json"
	"time"
)

type PackageInput struct {
	Tracking string          `json:"tracking"`
	Value    json.RawMessage `json:"value,omitempty"`
}

type ImportRequest struct {
	Conductor    string         `json:"conductor"    validate:"required,max=100"`
	Type         string         `json:"type"         validate:"required"`
	DeliveryDate string         `json:"deliveryDate" validate:"required"`
	Packages     []PackageInput `json:"packages"     validate:"required,min=1"`
}

type ImportResult struct {
	Created            int      `json:"created"`
	Duplicates         int      `json:"duplicates"`
	Errors             int      `json:"errors"`
	DuplicateTrackings []string `json:"duplicateTrackings"`
	ErrorMessages      []string `json:"errorMessages"`
}

type UpdateStatusRequest struct {
	Trackings []string `json:"trackings"           validate:"required,min=1"`
	Status    *int     `json:"status"              validate:"required"`
	Conductor *string  `json:"conductor,omitempty" validate:"omitempty,max=100"`
}

type UpdateStatusResult struct {
	Updated int64 `json:"updated"`
}

type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}

// ListParams holds raw query values. The service parses and bounds them.
type ListParams struct {
	Conductor string
	Status    string
	Type      string
	StartDate string
	EndDate   string
	Tracking  string
	Page      int
	Limit     int
}

// Filter is the parsed form of ListParams handed to the repository.
type Filter struct {
	Conductor string
	Status    *int
	Type      string
	From      *time.Time
	Until     *time.Time
	Tracking  string
}

type DeliveryResponse struct {
	ID           string     `json:"id"`
	Tracking     string     `json:"tracking"`
	ConductorID  string     `json:"conductorId"`
	Conductor    string     `json:"conductor"`
	Type         string     `json:"type"`
	Status       int        `json:"status"`
	DeliveryDate time.Time  `json:"deliveryDate"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty"`
	Value        float64    `json:"value"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func ToDeliveryResponse(d *Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:           d.ID,
		Tracking:     d.Tracking,
		ConductorID:  d.ConductorID,
		Conductor:    d.ConductorName,
		Type:         d.Type,
		Status:       d.Status,
		DeliveryDate: d.DeliveryDate,
		ReturnedAt:   d.ReturnedAt,
		Value:        d.Value,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func ToDeliveryResponseList(ds []Delivery) []DeliveryResponse {
	out := make([]DeliveryResponse, 0, len(ds))
	for i := range ds {
		out = append(out, ToDeliveryResponse(&ds[i]))
	}
	return out
}
