// Package auth verifies the backing-store access token presented to the
// admin gate. Token issuance happens outside this service; only parsing
// and signature verification live here.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/shashiranjanraj/vastra/config"
)

// Claims holds the typed JWT payload.
type Claims struct {
	Subject string `json:"sub,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// ValidateToken parses and validates an HS256 access token.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
