// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACTokenIssuer_RequiresKey(t *testing.T) {
	_, err := NewHMACTokenIssuer(TokenConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing key is required")
}

func TestHMACTokenIssuer_Defaults(t *testing.T) {
	issuer, err := NewHMACTokenIssuer(TokenConfig{SigningKey: []byte("secret")})
	require.NoError(t, err)

	assert.Equal(t, "fido-signer", issuer.Issuer())
	assert.Equal(t, time.Hour, issuer.TTL())
}

func TestHMACTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewHMACTokenIssuer(TokenConfig{
		SigningKey: []byte("test-secret-key"),
		Issuer:     "test-issuer",
		Audience:   "test-audience",
		TTL:        time.Minute,
	})
	require.NoError(t, err)

	user := &User{ID: "user-123", Name: "alice", DisplayName: "Alice"}
	token, err := issuer.IssueToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["sub"])
	assert.Equal(t, "test-issuer", claims["iss"])
	assert.Equal(t, "test-audience", claims["aud"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "Alice", claims["name"])
}

func TestHMACTokenIssuer_RejectsForeignToken(t *testing.T) {
	issuer, err := NewHMACTokenIssuer(TokenConfig{SigningKey: []byte("key-one")})
	require.NoError(t, err)
	other, err := NewHMACTokenIssuer(TokenConfig{SigningKey: []byte("key-two")})
	require.NoError(t, err)

	user := &User{ID: "user-123", Name: "alice"}
	token, err := issuer.IssueToken(context.Background(), user)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestHMACTokenIssuer_RejectsExpired(t *testing.T) {
	issuer, err := NewHMACTokenIssuer(TokenConfig{
		SigningKey: []byte("secret"),
		TTL:        -time.Minute,
	})
	require.NoError(t, err)

	token, err := issuer.IssueToken(context.Background(), &User{ID: "u1"})
	require.NoError(t, err)

	_, err = issuer.VerifyToken(token)
	assert.Error(t, err)
}
