// Package token mints and verifies stateless signed identity assertions.
// Tokens are the only thing services trust across process boundaries: no
// shared session store exists, so every claim a peer needs must ride in the
// token itself.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HeaderName is the fixed request header carrying the bearer credential.
const HeaderName = "Authorization"

// DefaultTTL matches the 24-hour expiry the rest of the system assumes.
const DefaultTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Role is the closed set of authorities a token may carry.
type Role string

const (
	RoleAdmin    Role = "ROLE_ADMIN"
	RoleCustomer Role = "ROLE_CUSTOMER"
)

// ParseRole maps a raw authority string onto the closed Role set.
// Unknown strings report ok=false rather than leaking through as a Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(raw)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCustomer:
		return RoleCustomer, true
	default:
		return "", false
	}
}

// Identity is the verified claim set attached to a request.
type Identity struct {
	Subject     string
	Authorities []string
}

func (id Identity) HasRole(role Role) bool {
	for _, authority := range id.Authorities {
		if parsed, ok := ParseRole(authority); ok && parsed == role {
			return true
		}
	}
	return false
}

// Claims is the wire shape of an assertion. Subject and the email claim
// carry the same value; authorities is a comma-separated string.
type Claims struct {
	Email       string `json:"email"`
	Authorities string `json:"authorities"`
	jwt.RegisteredClaims
}

// Authority signs and verifies assertions against one shared secret.
// It keeps no per-token state, so Generate and Verify are safe to call
// concurrently without coordination.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthority(secret string, ttl time.Duration) *Authority {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authority{
		secret: []byte(secret),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewAuthorityWithClock pins the authority to an injected clock.
func NewAuthorityWithClock(secret string, ttl time.Duration, now func() time.Time) *Authority {
	authority := NewAuthority(secret, ttl)
	if now != nil {
		authority.now = now
	}
	return authority
}

// Generate mints a signed assertion for subject carrying the given roles.
func (a *Authority) Generate(subject string, roles ...Role) (string, error) {
	authorities := make([]string, 0, len(roles))
	for _, role := range roles {
		authorities = append(authorities, string(role))
	}

	issuedAt := a.now()
	claims := Claims{
		Email:       subject,
		Authorities: strings.Join(authorities, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify checks the signature and expiry and returns the embedded identity.
// It has no side effects either way.
func (a *Authority) Verify(raw string) (Identity, error) {
	raw = StripBearer(raw)
	if raw == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrInvalidToken
	}
	if !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.Email
	}

	var authorities []string
	for _, authority := range strings.Split(claims.Authorities, ",") {
		if authority = strings.TrimSpace(authority); authority != "" {
			authorities = append(authorities, authority)
		}
	}
	return Identity{Subject: subject, Authorities: authorities}, nil
}

// StripBearer removes an optional "Bearer " prefix. Tokens are forwarded
// between services verbatim, so both prefixed and bare forms show up.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "Bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
