package stub

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/edusenior/eduterm/internal/models"
)

// tokenClaims is the access token payload. Subject carries the user's
// email to match the backend contract the client was built against.
type tokenClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 access and refresh tokens.
type TokenIssuer struct {
	secret        []byte
	expiry        time.Duration
	refreshExpiry time.Duration
}

func NewTokenIssuer(secret string, expiry, refreshExpiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, refreshExpiry: refreshExpiry}
}

// Issue returns a signed token pair for the user.
func (t *TokenIssuer) Issue(user *userRecord) (*models.TokenPair, error) {
	access, err := t.sign(user, t.expiry)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(user, t.refreshExpiry)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  access,
		TokenType:    "bearer",
		RefreshToken: refresh,
	}, nil
}

func (t *TokenIssuer) sign(user *userRecord, lifetime time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &tokenClaims{
		Role: models.Role(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Validate parses a token string and returns its claims.
func (t *TokenIssuer) Validate(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
