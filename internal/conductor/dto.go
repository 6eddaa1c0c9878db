// AngelaMos | 2026
// dto.go

package conductor

import (
	"time"
)

type CreateConductorRequest struct {
	Name         string  `json:"name"                   validate:"required,max=100"`
	Phone        *string `json:"phone,omitempty"        validate:"omitempty,max=30"`
	Email        *string `json:"email,omitempty"        validate:"omitempty,email,max=255"`
	VehicleType  *string `json:"vehicleType,omitempty"  validate:"omitempty,max=50"`
	LicensePlate *string `json:"licensePlate,omitempty" validate:"omitempty,max=20"`
}

type UpdateConductorRequest struct {
	Phone        *string `json:"phone,omitempty"        validate:"omitempty,max=30"`
	Email        *string `json:"email,omitempty"        validate:"omitempty,email,max=255"`
	VehicleType  *string `json:"vehicleType,omitempty"  validate:"omitempty,max=50"`
	LicensePlate *string `json:"licensePlate,omitempty" validate:"omitempty,max=20"`
}

type ConductorResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	VehicleType  *string   `json:"vehicleType,omitempty"`
	LicensePlate *string   `json:"licensePlate,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type DeactivateResponse struct {
	ID                string `json:"id"`
	DeliveriesDeleted int64  `json:"deliveriesDeleted"`
}

func ToConductorResponse(c *Conductor) ConductorResponse {
	return ConductorResponse{
		ID:           c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		VehicleType:  c.VehicleType,
		LicensePlate: c.LicensePlate,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func ToConductorResponseList(cs []Conductor) []ConductorResponse {
	out := make([]ConductorResponse, 0, len(cs))
	for i := range cs {
		out = append(out, ToConductorResponse(&cs[i]))
	}
	return out
}
