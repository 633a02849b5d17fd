package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/foliogate-dev/foliogate/internal/backend"
)

// TTL is how long an issued session token stays valid
const TTL = 7 * 24 * time.Hour

// RoleAdmin is the role claim value required for dashboard access
const RoleAdmin = "admin"

var sessionSecret []byte

// Claims represents the signed session claims. The session is a
// self-contained capability token: identity, role and the backend access
// token travel together and are verified per request without any
// server-side lookup.
type Claims struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	IsApproved  bool   `json:"is_approved"`
	AccessToken string `json:"access_token"`
	jwt.RegisteredClaims
}

// Initialize sets the session signing secret
func Initialize(secret string) {
	sessionSecret = []byte(secret)
}

// Generate creates a new signed session token for an authenticated identity.
// The backend-issued access token is embedded verbatim.
func Generate(identity *backend.Identity) (string, error) {
	if len(sessionSecret) == 0 {
		return "", fmt.Errorf("session secret not initialized")
	}

	now := time.Now()
	claims := Claims{
		UserID:      identity.ID,
		Name:        identity.Name,
		Email:       identity.Email,
		Role:        identity.Role,
		Phone:       identity.Phone,
		IsApproved:  identity.IsApproved,
		AccessToken: identity.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

// Validate verifies a session token signature and returns the claims
func Validate(tokenString string) (*Claims, error) {
	if len(sessionSecret) == 0 {
		return nil, fmt.Errorf("session secret not initialized")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sessionSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid session token")
}
