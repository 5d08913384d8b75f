// Package auth authenticates the client opening a Session, adapted from
// the teacher's WebSocket JWT manager but stripped of everything
// transport-specific (HTTP header/query extraction, middleware): the
// core only needs to mint and verify a token for whoever is allowed to
// open a session.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odin-labs/pjs/internal/pjserr"
)

// Claims identifies the principal a session is opened on behalf of.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager mints and verifies session-open tokens.
type Manager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewManager builds a Manager signing with HS256 using secretKey, minting
// tokens valid for tokenDuration.
func NewManager(secretKey string, tokenDuration time.Duration) *Manager {
	return &Manager{secretKey: []byte(secretKey), tokenDuration: tokenDuration}
}

// Generate mints a signed token for userID/role.
func (m *Manager) Generate(userID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "pjs",
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify validates tokenString and returns its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, pjserr.Wrap(pjserr.InvalidSessionState, err, "verify session token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, pjserr.New(pjserr.InvalidSessionState, "invalid session token claims")
	}
	return claims, nil
}
