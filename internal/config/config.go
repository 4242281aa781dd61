// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

// Package config loads server configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config is the server runtime configuration.
type Config struct {
	// HTTP
	Addr string

	// Relying party
	RPID          string
	RPName        string
	RPOrigins     []string
	CeremonyTTL   time.Duration
	VerifyTimeout time.Duration

	// Session tokens; token issuance is disabled when SigningKey is empty.
	SigningKey string
	Issuer     string
	TokenTTL   time.Duration
}

// Load reads the configuration from environment variables, applying
// development defaults that mirror a localhost deployment.
func Load() Config {
	return Config{
		Addr: getenv("ADDR", ":3000"),

		RPID:          getenv("RP_ID", "localhost"),
		RPName:        getenv("RP_NAME", "WebAuthn Demo"),
		RPOrigins:     getlist("RP_ORIGINS", "http://localhost:3000"),
		CeremonyTTL:   getdur("CEREMONY_TTL", 60*time.Second),
		VerifyTimeout: getdur("VERIFY_TIMEOUT", 5*time.Second),

		SigningKey: getenv("SIGNING_KEY", ""),
		Issuer:     getenv("ISSUER", "fido-signer"),
		TokenTTL:   getdur("TOKEN_TTL", time.Hour),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getlist(k, def string) []string {
	v := getenv(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}
