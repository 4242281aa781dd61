// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "localhost", cfg.RPID)
	assert.Equal(t, "WebAuthn Demo", cfg.RPName)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.RPOrigins)
	assert.Equal(t, 60*time.Second, cfg.CeremonyTTL)
	assert.Equal(t, 5*time.Second, cfg.VerifyTimeout)
	assert.Empty(t, cfg.SigningKey)
	assert.Equal(t, "fido-signer", cfg.Issuer)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":8443")
	t.Setenv("RP_ID", "example.com")
	t.Setenv("RP_ORIGINS", "https://example.com, https://app.example.com")
	t.Setenv("CEREMONY_TTL", "90s")
	t.Setenv("SIGNING_KEY", "secret")

	cfg := Load()

	assert.Equal(t, ":8443", cfg.Addr)
	assert.Equal(t, "example.com", cfg.RPID)
	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.RPOrigins)
	assert.Equal(t, 90*time.Second, cfg.CeremonyTTL)
	assert.Equal(t, "secret", cfg.SigningKey)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("VERIFY_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.VerifyTimeout)
}
