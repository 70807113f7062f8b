package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired means the credential was valid once but its
	// ExpiresAt is in the past. Callers distinguish it from
	// ErrTokenInvalid so the client can be told to log in again rather
	// than be treated as an attacker.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid covers everything else: garbage input, a bad
	// signature, a wrong signing method.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload inside every access token.
//
// ClientID identifies the tenant (one customer organization with its
// own database); UserID identifies the person inside that tenant. The
// db-context middleware turns ClientID into a live tenant database
// connection, so these claims are the root of all data isolation.
type Claims struct {
	ClientID uuid.UUID `json:"client_id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 token for a client user.
func GenerateToken(clientID, userID uuid.UUID, email, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		ClientID: clientID,
		UserID:   userID,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "crm-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a token string and extracts the claims.
//
// It verifies the signature, the expiry, and that the signing method
// is HMAC (a token signed with "none" or RSA is rejected before
// signature verification — the classic algorithm-confusion attack).
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
