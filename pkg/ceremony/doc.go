// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

// Package ceremony implements the server side of the WebAuthn (FIDO2)
// registration, authentication, and data-signing ceremonies.
//
// A ceremony is one begin/complete exchange: the begin call issues a
// single-use challenge bound to a user, the complete call consumes that
// challenge and validates the authenticator's signed response. The
// package wraps the go-webauthn/webauthn library behind a Verifier
// interface and provides:
//   - Pluggable storage interfaces for users, credentials, and challenges
//   - In-memory storage implementations for development/testing
//   - Composable HTTP handlers in the http subpackage
//   - Optional JWT issuance after successful authentication
//
// # Architecture
//
// The package is designed with a layered architecture:
//
//  1. Service layer (Service) - The ceremony state machines
//  2. Storage layer (UserStore, CredentialStore, ChallengeStore) - Pluggable persistence
//  3. Verification layer (Verifier) - Cryptographic validation boundary
//  4. HTTP layer (pkg/ceremony/http) - Composable HTTP handlers
//
// # Usage
//
// Basic usage with in-memory storage (for development):
//
//	svc, err := ceremony.NewService(ceremony.ServiceParams{
//	    Config: &ceremony.Config{
//	        RPID:          "localhost",
//	        RPDisplayName: "My App",
//	        RPOrigins:     []string{"http://localhost:3000"},
//	    },
//	    UserStore:       ceremony.NewMemoryUserStore(),
//	    CredentialStore: ceremony.NewMemoryCredentialStore(),
//	    ChallengeStore:  ceremony.NewMemoryChallengeStore(),
//	})
//
// For production, implement the storage interfaces with a transactional
// key-value store keyed by user id.
//
// # Data signing
//
// The signing ceremony reuses the authentication assertion to produce a
// detached signature over caller-supplied bytes: the challenge is the
// SHA-256 hash of the payload rather than a random value, so the
// authenticator's signature over (authenticatorData || hash(clientData))
// is bound to the payload through the challenge embedded in clientData.
//
// # WebAuthn Specification Compliance
//
// Ceremony validation follows the W3C Web Authentication specification:
//   - https://www.w3.org/TR/webauthn-2/
//   - https://www.w3.org/TR/webauthn-3/
//
// Note: WebAuthn requires a secure context; browsers only expose the
// API over HTTPS (or localhost).
package ceremony
