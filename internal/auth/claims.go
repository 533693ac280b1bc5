package auth

import (
	"sort"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// DefaultRole is the implicit role assigned when an identity has none.
const DefaultRole = "user"

// Claims is the payload carried inside every bearer token: the subject id,
// a snapshot of the subject's roles at issuance time, and the standard
// registered claims (exp, iat). Immutable once issued.
type Claims struct {
	gojwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// NormalizeRoles trims, lowercases, dedupes, and sorts a role list.
// An empty result collapses to the implicit default role.
func NormalizeRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return []string{DefaultRole}
	}
	sort.Strings(out)
	return out
}
