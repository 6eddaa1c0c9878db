// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/barulogix/barulogix-api/internal/core"
)

type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"    validate:"omitempty,min=2,max=100"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=150"`
	Phone   *string `json:"phone,omitempty"   validate:"omitempty,max=30"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UpdateSubscriptionRequest struct {
	Plan      string     `json:"plan"                validate:"required,oneof=free pro enterprise"`
	Status    string     `json:"status"              validate:"required,oneof=pending active inactive trial"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type UserResponse struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Name                  string     `json:"name"`
	Role                  string     `json:"role"`
	Company               *string    `json:"company,omitempty"`
	Phone                 *string    `json:"phone,omitempty"`
	Plan                  string     `json:"plan"`
	SubscriptionStatus    string     `json:"subscriptionStatus"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Plan     string
	Status   string
}

func (p *ListUsersParams) Normalize() {
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	p.Page = core.ClampPage(p.Page, p.PageSize)
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		Name:                  u.Name,
		Role:                  u.Role,
		Company:               u.Company,
		Phone:                 u.Phone,
		Plan:                  u.Plan,
		SubscriptionStatus:    u.SubscriptionStatus,
		SubscriptionExpiresAt: u.SubscriptionExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
