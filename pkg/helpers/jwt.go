package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "kind" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	now func() time.Time
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Claims identify the caller. Subject is the identity id.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenSubject is what gets signed into a token.
type TokenSubject struct {
	ID   string
	Role string
	Name string
}

func (m *JWTManager) GenerateAccessToken(sub TokenSubject) (string, time.Time, error) {
	return m.generate(sub, TokenAccess, m.AccessTTL, m.AccessSecret)
}

func (m *JWTManager) GenerateRefreshToken(sub TokenSubject) (string, time.Time, error) {
	return m.generate(sub, TokenRefresh, m.RefreshTTL, m.RefreshSecret)
}

func (m *JWTManager) generate(sub TokenSubject, kind string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := &Claims{
		Role: sub.Role,
		Name: sub.Name,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.ID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, TokenAccess, m.AccessSecret)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, TokenRefresh, m.RefreshSecret)
}

// parse returns ErrTokenExpired for an otherwise valid expired token and
// ErrTokenInvalid for everything else.
func (m *JWTManager) parse(tokenStr, kind string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid || claims.Kind != kind || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
