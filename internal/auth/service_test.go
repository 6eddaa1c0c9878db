// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/barulogix/barulogix-api/internal/config"
	"github.com/barulogix/barulogix-api/internal/core"
)

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]*RefreshToken{}}
}

func (m *memTokens) Create(_ context.Context, t *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	cp := *t
	m.tokens[t.ID] = &cp
	return nil
}

func (m *memTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memTokens) FindByID(_ context.Context, id string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTokens) MarkAsUsed(_ context.Context, id, replacedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || t.IsUsed {
		return core.ErrNotFound
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &replacedBy
	return nil
}

func (m *memTokens) RevokeByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || t.RevokedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (m *memTokens) revokeWhere(match func(*RefreshToken) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, t := range m.tokens {
		if match(t) && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
}

func (m *memTokens) RevokeByFamilyID(_ context.Context, familyID string) error {
	m.revokeWhere(func(t *RefreshToken) bool { return t.FamilyID == familyID })
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID string) error {
	m.revokeWhere(func(t *RefreshToken) bool { return t.UserID == userID })
	return nil
}

func (m *memTokens) GetActiveSessionsForUser(
	_ context.Context,
	userID string,
) ([]RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RefreshToken
	for _, t := range m.tokens {
		if t.UserID == userID && t.UsableAt(time.Now()) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tokens {
		if t.ExpiresAt.Before(before) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*UserInfo
	expired []string
}

func newMemUsers(users ...*UserInfo) *memUsers {
	m := &memUsers{byID: map[string]*UserInfo{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, a NewAccount) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == a.Email {
			return nil, core.ErrDuplicateKey
		}
	}
	u := &UserInfo{
		ID:                 "u-" + a.Email,
		Email:              a.Email,
		Name:               a.Name,
		PasswordHash:       a.PasswordHash,
		Role:               "user",
		Company:            a.Company,
		Plan:               "free",
		SubscriptionStatus: "pending",
	}
	m.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) IncrementTokenVersion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].TokenVersion++
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].PasswordHash = hash
	return nil
}

func (m *memUsers) ExpireSubscription(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].SubscriptionStatus = "inactive"
	m.expired = append(m.expired, id)
	return nil
}

type memBlacklist struct {
	mu   sync.Mutex
	ids  map[string]time.Duration
	fail bool
}

func (b *memBlacklist) Blacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ids == nil {
		b.ids = map[string]time.Duration{}
	}
	b.ids[jti] = ttl
	return nil
}

func (b *memBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return false, errors.New("redis unavailable")
	}
	_, ok := b.ids[jti]
	return ok, nil
}

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(priv, pub); err != nil {
		t.Fatalf("generate keys: %v", err)
	}

	m, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     priv,
		PublicKeyPath:      pub,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "barulogix",
		Audience:           "barulogix-api",
	})
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}
	return m
}

func activeUser(t *testing.T, email, password string) *UserInfo {
	t.Helper()

	hash, err := core.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &UserInfo{
		ID:                 "u-" + email,
		Email:              email,
		Name:               "Tenant",
		PasswordHash:       hash,
		Role:               "user",
		Plan:               "pro",
		SubscriptionStatus: "active",
	}
}

type fixture struct {
	svc       *Service
	tokens    *memTokens
	users     *memUsers
	blacklist *memBlacklist
}

func newFixture(t *testing.T, users ...*UserInfo) *fixture {
	t.Helper()

	f := &fixture{
		tokens:    newMemTokens(),
		users:     newMemUsers(users...),
		blacklist: &memBlacklist{},
	}
	f.svc = NewService(f.tokens, newTestJWT(t), f.users, f.blacklist)
	return f
}

func TestLoginSubscriptionRules(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		mutate  func(u *UserInfo)
		wantErr error
	}{
		{name: "active", mutate: func(*UserInfo) {}},
		{
			name:   "active with future expiry",
			mutate: func(u *UserInfo) { u.SubscriptionExpiresAt = &future },
		},
		{
			name:    "pending",
			mutate:  func(u *UserInfo) { u.SubscriptionStatus = "pending" },
			wantErr: ErrSubscriptionInactive,
		},
		{
			name:    "inactive",
			mutate:  func(u *UserInfo) { u.SubscriptionStatus = "inactive" },
			wantErr: ErrSubscriptionInactive,
		},
		{
			name:    "trial is not active",
			mutate:  func(u *UserInfo) { u.SubscriptionStatus = "trial" },
			wantErr: ErrSubscriptionInactive,
		},
		{
			name:    "expired",
			mutate:  func(u *UserInfo) { u.SubscriptionExpiresAt = &past },
			wantErr: ErrSubscriptionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := activeUser(t, "ana@example.com", "secret123")
			tt.mutate(u)
			f := newFixture(t, u)

			resp, err := f.svc.Login(context.Background(), LoginRequest{
				Email:    "ANA@example.com",
				Password: "secret123",
			}, "test", "127.0.0.1")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
				t.Fatal("expected both tokens")
			}
			if resp.Tokens.ExpiresIn != int((15 * time.Minute).Seconds()) {
				t.Errorf("expiresIn = %d", resp.Tokens.ExpiresIn)
			}
		})
	}
}

func TestLoginExpiredFlipsToInactive(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	u := activeUser(t, "ana@example.com", "secret123")
	u.SubscriptionExpiresAt = &past
	f := newFixture(t, u)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	}, "", "")
	if !errors.Is(err, ErrSubscriptionExpired) {
		t.Fatalf("err = %v", err)
	}

	stored, _ := f.users.GetByID(context.Background(), u.ID)
	if stored.SubscriptionStatus != "inactive" {
		t.Errorf("status = %q, want inactive", stored.SubscriptionStatus)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture(t, activeUser(t, "ana@example.com", "secret123"))

	for _, req := range []LoginRequest{
		{Email: "ana@example.com", Password: "wrong1234"},
		{Email: "nobody@example.com", Password: "secret123"},
	} {
		_, err := f.svc.Login(context.Background(), req, "", "")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login(%s) err = %v", req.Email, err)
		}
	}
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	company := "  Baru SAS "
	resp, err := f.svc.Register(ctx, RegisterRequest{
		Email:    "New@Example.com",
		Password: "abc12345",
		Name:     " Nuevo ",
		Company:  &company,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.SubscriptionStatus != "pending" || resp.Email != "new@example.com" {
		t.Errorf("unexpected account: %+v", resp)
	}
	if resp.Company == nil || *resp.Company != "Baru SAS" {
		t.Errorf("company = %v", resp.Company)
	}

	if len(f.tokens.tokens) != 0 {
		t.Error("registration must not issue tokens")
	}

	_, err = f.svc.Register(ctx, RegisterRequest{
		Email:    "new@example.com",
		Password: "abc12345",
		Name:     "Otro",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate register err = %v", err)
	}

	_, err = f.svc.Register(ctx, RegisterRequest{
		Email:    "digits@example.com",
		Password: "12345678",
		Name:     "Solo Numeros",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password err = %v", err)
	}
}

func TestRefreshRotationAndReuse(t *testing.T) {
	f := newFixture(t, activeUser(t, "ana@example.com", "secret123"))
	ctx := context.Background()

	first, err := f.svc.Login(ctx, LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	}, "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second, err := f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.Tokens.RefreshToken == first.Tokens.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	if _, err := f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", ""); !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("reuse err = %v", err)
	}

	if _, err := f.svc.Refresh(ctx, second.Tokens.RefreshToken, "", ""); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("family should be revoked after reuse, err = %v", err)
	}
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	f := newFixture(t, activeUser(t, "ana@example.com", "secret123"))
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	}, "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify before logout: %v", err)
	}
	if claims.TokenID == "" || claims.ExpiresAt.IsZero() {
		t.Fatalf("claims missing jti/exp: %+v", claims)
	}

	if err := f.svc.Logout(ctx, resp.Tokens.RefreshToken, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Errorf("verify after logout err = %v", err)
	}
	if ttl := f.blacklist.ids[claims.TokenID]; ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("blacklist ttl = %v", ttl)
	}
	if _, err := f.svc.Refresh(ctx, resp.Tokens.RefreshToken, "", ""); !errors.Is(err, core.ErrTokenRevoked) {
		t.Errorf("refresh after logout err = %v", err)
	}
}

func TestVerifyFailsOpenWhenBlacklistDown(t *testing.T) {
	f := newFixture(t, activeUser(t, "ana@example.com", "secret123"))
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	}, "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.blacklist.fail = true
	if _, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken); err != nil {
		t.Errorf("verify with blacklist down: %v", err)
	}
}

func TestLogoutAllInvalidatesAccessTokens(t *testing.T) {
	u := activeUser(t, "ana@example.com", "secret123")
	f := newFixture(t, u)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	}, "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := f.svc.LogoutAll(ctx, u.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	if _, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Errorf("verify after logout-all err = %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyAccessToken(context.Background(), "not.a.jwt")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("err = %v, want invalid", err)
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_ = f.tokens.Create(ctx, &RefreshToken{ID: "old", ExpiresAt: time.Now().Add(-48 * time.Hour)})
	_ = f.tokens.Create(ctx, &RefreshToken{ID: "new", ExpiresAt: time.Now().Add(time.Hour)})

	n, err := f.svc.PurgeExpiredTokens(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}
}
