// Package auth issues and verifies bearer tokens and password hashes.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload issued at login.
type Claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller resolved from a token.
type Principal struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the principal holds any of roles. Role names are
// compared exactly.
func (p *Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenService signs and parses HS256 tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      now,
	}
}

// Issue signs a token for user and returns it with its expiry.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expires := issuedAt.Add(s.ttl)

	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	claims := Claims{
		Name:  user.Username,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies signature, issuer, audience and expiry of tokenString.
func (s *TokenService) Parse(tokenString string) (*Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	if name == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Principal{Username: name, Roles: claims.Roles}, nil
}
