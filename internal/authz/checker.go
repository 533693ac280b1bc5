// Package authz implements role-based access checks over an authenticated
// principal's role set. Checks are any-of: a caller passes a gate when it
// holds at least one of the required roles. An empty requirement admits any
// authenticated caller.
package authz

import "context"

// Checker decides whether a caller's roles satisfy a requirement.
type Checker interface {
	// Allowed reports whether the held roles satisfy the required set.
	Allowed(ctx context.Context, held, required []string) bool
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, held, required []string) bool

func (f CheckerFunc) Allowed(ctx context.Context, held, required []string) bool {
	return f(ctx, held, required)
}

// RoleChecker is the standard any-of role checker.
type RoleChecker struct{}

// NewRoleChecker creates the default checker.
func NewRoleChecker() *RoleChecker {
	return &RoleChecker{}
}

// Allowed returns true when held contains at least one of required, or when
// required is empty.
func (c *RoleChecker) Allowed(_ context.Context, held, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(held))
	for _, r := range held {
		set[r] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}
