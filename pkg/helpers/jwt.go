package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Identity is the user snapshot embedded in a session token.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   bool   `json:"status"`
	Verified bool   `json:"verified"`
}

type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 session tokens. It is built once at
// startup from configuration and never mutated.
//
// Tokens carry the whole Identity so authenticated requests need no
// repository lookup. The price is staleness: a role or status change is
// only visible after the user logs in again.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for id that expires after the configured TTL.
func (m *JWTManager) Issue(id Identity) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Parse validates signature and expiry, returning ErrExpiredToken or
// ErrInvalidToken on failure.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid || claims.User.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify is Parse reduced to an ok flag.
func (m *JWTManager) Verify(tokenStr string) (Identity, bool) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return Identity{}, false
	}
	return claims.User, true
}
