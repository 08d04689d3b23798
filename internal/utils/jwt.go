package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and verifies stateless session tokens. The only payload
// claim is the user id; rotating the secret invalidates all outstanding
// tokens.
type JWTManager struct {
	secret        []byte
	sessionExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, sessionExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		sessionExpiry: sessionExpiry,
	}
}

// Generate mints a signed session token for the given user id.
func (j *JWTManager) Generate(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(j.sessionExpiry).Unix(),
	})

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate verifies the signature and expiry of a session token and returns
// the user id it was issued for.
func (j *JWTManager) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid user_id in token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", fmt.Errorf("invalid exp in token")
	}
	if time.Now().Unix() > int64(exp) {
		return "", fmt.Errorf("token is expired")
	}

	return userID, nil
}

// SessionExpiry returns the configured session token lifetime.
func (j *JWTManager) SessionExpiry() time.Duration {
	return j.sessionExpiry
}
