// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HMACTokenIssuer issues HS256-signed JWTs for authenticated users.
type HMACTokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// TokenConfig contains configuration for the HMAC token issuer.
type TokenConfig struct {
	// SigningKey is the HMAC secret (required).
	SigningKey []byte

	// Issuer is the JWT issuer claim (default: "fido-signer").
	Issuer string

	// Audience is the JWT audience claim (default: "fido-signer").
	Audience string

	// TTL is how long tokens are valid (default: 1 hour).
	TTL time.Duration
}

// NewHMACTokenIssuer creates a token issuer with the given configuration.
func NewHMACTokenIssuer(config TokenConfig) (*HMACTokenIssuer, error) {
	if len(config.SigningKey) == 0 {
		return nil, fmt.Errorf("signing key is required")
	}

	issuer := config.Issuer
	if issuer == "" {
		issuer = "fido-signer"
	}
	audience := config.Audience
	if audience == "" {
		audience = "fido-signer"
	}
	ttl := config.TTL
	if ttl == 0 {
		ttl = time.Hour
	}

	return &HMACTokenIssuer{
		key:      config.SigningKey,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}, nil
}

// IssueToken creates a JWT for the authenticated user.
func (g *HMACTokenIssuer) IssueToken(ctx context.Context, user *User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss": g.issuer,
		"aud": g.audience,
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(g.ttl).Unix(),
		"nbf": now.Unix(),
		// Custom claims
		"name":     user.DisplayName,
		"username": user.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.key)
}

// VerifyToken verifies a JWT issued by this issuer and returns its claims.
func (g *HMACTokenIssuer) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return g.key, nil
		},
		jwt.WithIssuer(g.issuer),
		jwt.WithAudience(g.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}
	return claims, nil
}

// Issuer returns the configured issuer claim.
func (g *HMACTokenIssuer) Issuer() string {
	return g.issuer
}

// TTL returns the token validity duration.
func (g *HMACTokenIssuer) TTL() time.Duration {
	return g.ttl
}
