// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/barulogix/barulogix-api/internal/auth"
	"github.com/barulogix/barulogix-api/internal/core"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*User{}}
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email && existing.DeletedAt == nil {
			return core.ErrDuplicateKey
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) live(id string) (*User, error) {
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.live(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.live(u.ID)
	if err != nil {
		return err
	}
	stored.Name, stored.Role = u.Name, u.Role
	stored.Company, stored.Phone = u.Company, u.Phone
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) UpdateSubscription(
	_ context.Context,
	id, plan, status string,
	expiresAt *time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.Plan, u.SubscriptionStatus, u.SubscriptionExpiresAt = plan, status, expiresAt
	return nil
}

func (m *memRepo) SetSubscriptionStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.SubscriptionStatus = status
	return nil
}

func (m *memRepo) IncrementTokenVersion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.TokenVersion++
	return nil
}

func (m *memRepo) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.live(id)
	if err != nil {
		return err
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (m *memRepo) List(_ context.Context, p ListUsersParams) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []User
	for _, u := range m.users {
		if u.DeletedAt == nil && (p.Status == "" || u.SubscriptionStatus == p.Status) {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func TestCreateStartsPending(t *testing.T) {
	svc := NewService(newMemRepo())

	info, err := svc.Create(context.Background(), auth.NewAccount{
		Email:        "Ana@Example.com",
		PasswordHash: "hash",
		Name:         "Ana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if info.Email != "ana@example.com" {
		t.Errorf("email = %q, want lowercased", info.Email)
	}
	if info.Role != RoleUser || info.Plan != PlanFree || info.SubscriptionStatus != StatusPending {
		t.Errorf("unexpected defaults: %+v", info)
	}
}

func TestUpdateSubscriptionActivates(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	info, err := svc.Create(ctx, auth.NewAccount{Email: "a@b.co", Name: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	expires := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	u, err := svc.UpdateSubscription(ctx, info.ID, UpdateSubscriptionRequest{
		Plan:      PlanPro,
		Status:    StatusActive,
		ExpiresAt: &expires,
	})
	if err != nil {
		t.Fatalf("update subscription: %v", err)
	}
	if u.SubscriptionStatus != StatusActive || u.Plan != PlanPro {
		t.Errorf("got plan=%s status=%s", u.Plan, u.SubscriptionStatus)
	}
	if u.SubscriptionExpiresAt == nil || !u.SubscriptionExpiresAt.Equal(expires) {
		t.Errorf("expiry = %v", u.SubscriptionExpiresAt)
	}

	_, err = svc.UpdateSubscription(ctx, info.ID, UpdateSubscriptionRequest{
		Plan:   "gold",
		Status: StatusActive,
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("invalid plan err = %v", err)
	}

	_, err = svc.UpdateSubscription(ctx, "missing", UpdateSubscriptionRequest{
		Plan:   PlanPro,
		Status: StatusActive,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestExpireSubscription(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, "root@barulogix.co", "hash", "Root")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if admin.SubscriptionStatus != StatusActive || !admin.IsAdmin() {
		t.Fatalf("admin not provisioned active: %+v", admin)
	}

	if err := svc.ExpireSubscription(ctx, admin.ID); err != nil {
		t.Fatalf("expire: %v", err)
	}

	info, _ := svc.GetByID(ctx, admin.ID)
	if info.SubscriptionStatus != StatusInactive {
		t.Errorf("status = %q", info.SubscriptionStatus)
	}
}

func TestCanDeleteUser(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	admin, _ := svc.CreateAdmin(ctx, "admin@x.co", "h", "Admin")
	other, _ := svc.CreateAdmin(ctx, "admin2@x.co", "h", "Admin2")
	regular, _ := svc.Create(ctx, auth.NewAccount{Email: "u@x.co", Name: "U"})
	regular2, _ := svc.Create(ctx, auth.NewAccount{Email: "v@x.co", Name: "V"})

	tests := []struct {
		name      string
		requester string
		target    string
		wantErr   error
	}{
		{"self", regular.ID, regular.ID, nil},
		{"admin deletes user", admin.ID, regular.ID, nil},
		{"user deletes user", regular.ID, regular2.ID, core.ErrForbidden},
		{"admin deletes admin", admin.ID, other.ID, core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CanDeleteUser(ctx, tt.requester, tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateMeClearsOptionalFields(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	company := "Baru"
	info, _ := svc.Create(ctx, auth.NewAccount{Email: "c@x.co", Name: "C", Company: &company})

	blank := "   "
	name := " Carla "
	u, err := svc.UpdateMe(ctx, info.ID, UpdateUserRequest{Name: &name, Company: &blank})
	if err != nil {
		t.Fatalf("update me: %v", err)
	}
	if u.Name != "Carla" || u.Company != nil {
		t.Errorf("got name=%q company=%v", u.Name, u.Company)
	}

	if _, err := svc.UpdateMe(ctx, "", UpdateUserRequest{}); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("anonymous update err = %v", err)
	}
}
