package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrSubjectNotFound is returned by an IdentityStore when the subject does
// not exist. The Resolver maps it to the same failure as a bad token.
var ErrSubjectNotFound = errors.New("auth: subject not found")

// Identity is the stored account record the resolver looks up. The password
// digest never leaves this package boundary.
type Identity struct {
	Subject      string
	Name         string
	Email        string
	Status       string
	Roles        []string
	PasswordHash string
}

// IdentityStore looks up stored identities. Implementations return
// ErrSubjectNotFound (possibly wrapped) when no record matches.
type IdentityStore interface {
	// FindBySubject returns the identity for a token subject.
	FindBySubject(ctx context.Context, subject string) (*Identity, error)

	// FindByEmail returns the identity for a login email.
	FindByEmail(ctx context.Context, email string) (*Identity, error)
}

// Principal is an authenticated caller: the identity minus its credential
// material, plus the effective role set.
type Principal struct {
	Subject string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Status  string   `json:"status"`
	Roles   []string `json:"roles"`
}

// HasRole reports whether the principal holds the given role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Resolver turns a raw bearer token into an authenticated Principal. The
// checks run in a fixed order: revocation, then decode (signature + expiry),
// then subject lookup. A revoked token reports revocation even when it is
// also expired or malformed.
type Resolver struct {
	tokens     *TokenService
	revocation RevocationList
	store      IdentityStore
}

// NewResolver creates a resolver over the given collaborators.
func NewResolver(tokens *TokenService, revocation RevocationList, store IdentityStore) *Resolver {
	return &Resolver{tokens: tokens, revocation: revocation, store: store}
}

// ErrTokenRevoked indicates the token was explicitly revoked.
var ErrTokenRevoked = errors.New("auth: token has been revoked")

// Resolve authenticates a bearer token. Failures are one of ErrTokenRevoked,
// ErrTokenExpired, or ErrTokenMalformed (subject-not-found collapses into
// the latter so callers cannot probe for deleted accounts).
func (r *Resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	revoked, err := r.revocation.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("auth: resolve token: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := r.tokens.Decode(token)
	if err != nil {
		return nil, err
	}

	identity, err := r.store.FindBySubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrSubjectNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrTokenMalformed)
		}
		return nil, fmt.Errorf("auth: resolve subject: %w", err)
	}

	roles := identity.Roles
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}
	return &Principal{
		Subject: identity.Subject,
		Name:    identity.Name,
		Email:   identity.Email,
		Status:  identity.Status,
		Roles:   roles,
	}, nil
}

// Revoke marks the token as revoked. Idempotent.
func (r *Resolver) Revoke(ctx context.Context, token string) error {
	return r.revocation.Revoke(ctx, token)
}
