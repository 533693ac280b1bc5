package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeIdentityStore struct {
	identities map[string]*Identity
}

func (s *fakeIdentityStore) FindBySubject(_ context.Context, subject string) (*Identity, error) {
	if id, ok := s.identities[subject]; ok {
		return id, nil
	}
	return nil, ErrSubjectNotFound
}

func (s *fakeIdentityStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	for _, id := range s.identities {
		if id.Email == email {
			return id, nil
		}
	}
	return nil, ErrSubjectNotFound
}

func testResolver(t *testing.T, opts ...TokenOption) (*Resolver, *TokenService, *fakeIdentityStore) {
	t.Helper()
	svc := testTokenService(t, opts...)
	store := &fakeIdentityStore{identities: map[string]*Identity{
		"user-1": {
			Subject:      "user-1",
			Name:         "Ada",
			Email:        "ada@example.com",
			Status:       "active",
			Roles:        []string{"admin"},
			PasswordHash: "$2a$12$secret-digest",
		},
	}}
	return NewResolver(svc, NewMemoryRevocationList(), store), svc, store
}

func TestResolveValidToken(t *testing.T) {
	ctx := context.Background()
	resolver, svc, _ := testResolver(t)

	token, err := svc.Issue("user-1", []string{"admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := resolver.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Subject != "user-1" {
		t.Errorf("expected subject 'user-1', got %q", p.Subject)
	}
	if p.Email != "ada@example.com" {
		t.Errorf("expected email 'ada@example.com', got %q", p.Email)
	}
	if !p.HasRole("admin") {
		t.Errorf("expected principal to hold admin role, got %v", p.Roles)
	}
}

func TestResolveRevokedToken(t *testing.T) {
	ctx := context.Background()
	resolver, svc, _ := testResolver(t)

	token, err := svc.Issue("user-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := resolver.Revoke(ctx, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := resolver.Resolve(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestResolveRevokedBeatsExpired(t *testing.T) {
	ctx := context.Background()
	issued := time.Now().Add(-2 * time.Hour)
	resolver, svc, _ := testResolver(t, WithTimeFunc(func() time.Time { return issued }))

	token, err := svc.Issue("user-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := resolver.Revoke(ctx, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Token is both expired (issued 2h ago with a 1h TTL) and revoked;
	// revocation wins.
	fresh := NewResolver(testTokenService(t), resolver.revocation, resolver.store)
	if _, err := fresh.Resolve(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	ctx := context.Background()
	issued := time.Now().Add(-2 * time.Hour)
	_, svc, _ := testResolver(t, WithTimeFunc(func() time.Time { return issued }))

	token, err := svc.Issue("user-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolver, _, _ := testResolver(t)
	if _, err := resolver.Resolve(ctx, token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestResolveUnknownSubject(t *testing.T) {
	ctx := context.Background()
	resolver, svc, _ := testResolver(t)

	token, err := svc.Issue("ghost", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A deleted subject must look exactly like a bad token.
	if _, err := resolver.Resolve(ctx, token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestResolveDefaultRole(t *testing.T) {
	ctx := context.Background()
	resolver, svc, store := testResolver(t)
	store.identities["user-2"] = &Identity{Subject: "user-2", Email: "b@example.com", Status: "active"}

	token, err := svc.Issue("user-2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := resolver.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasRole(DefaultRole) {
		t.Errorf("expected implicit default role, got %v", p.Roles)
	}
}
