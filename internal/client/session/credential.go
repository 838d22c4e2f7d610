// Package session owns the Session Credential of the running client.
//
// The Store is the only place the bearer token lives in memory. It is read by
// the API client on every request and cleared on logout or when the backend
// answers 401. An optional Persister keeps the token across restarts.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/senselib/f8client/internal/common"
)

// Identity is the authenticated principal that owns a credential.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Key is the stable identifier used to key per-identity state such as the
// balance ledger.
func (i Identity) Key() string {
	if i.ID != "" {
		return i.ID
	}
	if i.Email != "" {
		return i.Email
	}
	return i.Name
}

func (i Identity) IsAdmin() bool {
	return strings.EqualFold(i.Role, "admin") || strings.EqualFold(i.Role, "role_admin")
}

func (i Identity) String() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return i.ID
	}
}

// Credential is a bearer token together with the identity it belongs to.
type Credential struct {
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}

// Expired reports whether the token carried an expiry that has passed.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// NewCredential builds a credential from a raw token. When the token is a JWT
// its claims seed the identity and expiry. The signature is not verified;
// the backend does that on every request.
func NewCredential(token string) (Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Credential{}, fmt.Errorf("%w: empty token", common.ErrInvalidToken)
	}
	c := Credential{Token: token}

	id, exp, err := parseClaims(token)
	if err == nil {
		c.Identity = id
		c.ExpiresAt = exp
	}
	return c, nil
}

func parseClaims(token string) (Identity, time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	var id Identity
	id.ID = firstClaim(claims, "userId", "user_id", "id", "sub")
	id.Email = firstClaim(claims, "email")
	id.Name = firstClaim(claims, "username", "preferred_username", "name")
	id.Role = firstClaim(claims, "role", "roles")
	if id.Name == "" {
		// Spring style tokens carry the username as the subject.
		if sub, _ := claims.GetSubject(); sub != "" && sub != id.ID {
			id.Name = sub
		}
	}

	var exp time.Time
	if d, err := claims.GetExpirationTime(); err == nil && d != nil {
		exp = d.Time
	}
	return id, exp, nil
}

func firstClaim(claims jwt.MapClaims, names ...string) string {
	for _, n := range names {
		v, ok := claims[n]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return fmt.Sprintf("%.0f", t)
		case []any:
			if len(t) > 0 {
				return fmt.Sprint(t[0])
			}
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}
