// Package security provides JWT token utilities
package security

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateAuthToken creates a signed JWT carrying the account identity and
// role for the console's auth cookie.
func GenerateAuthToken(userID, email, role, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"role":   role,
		"iat":    time.Now().UTC().Unix(),
		"exp":    time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	result, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("ERROR: Failed to sign JWT token: %v", err)
		return "", err
	}

	return result, nil
}

// RoleFromClaims extracts the role claim, empty when absent.
func RoleFromClaims(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok {
		return role
	}
	return ""
}

// UserIDFromClaims extracts the userId claim, empty when absent.
func UserIDFromClaims(claims jwt.MapClaims) string {
	if id, ok := claims["userId"].(string); ok {
		return id
	}
	return ""
}
