package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusconnect/campus-api/internal/domain"
)

const issuer = "campus-api"

var ErrInvalidToken = errors.New("invalid token")

type CustomClaims struct {
	jwt.RegisteredClaims

	IdentityProvider string   `json:"idp"`
	UserDetails      string   `json:"details"`
	UserRoles        []string `json:"roles"`
	UserAgent        string   `json:"ua"`
}

// GenerateToken signs the principal into an HS256 token valid for ttl.
func GenerateToken(key []byte, p domain.Principal, userAgent string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IdentityProvider: p.IdentityProvider,
		UserDetails:      p.UserDetails,
		UserRoles:        p.UserRoles,
		UserAgent:        userAgent,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

// ParseToken verifies the signature, issuer and expiry and returns the principal the token carries.
func ParseToken(key []byte, tokenString string) (domain.Principal, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return domain.Principal{}, ErrInvalidToken
	}

	return domain.Principal{
		IdentityProvider: claims.IdentityProvider,
		UserID:           claims.Subject,
		UserDetails:      claims.UserDetails,
		UserRoles:        claims.UserRoles,
	}, nil
}
