// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"context"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// UserStore is the identity persistence layer. Users are never deleted;
// there is no account-deletion ceremony.
type UserStore interface {
	// Create creates a new user with a server-generated identifier.
	// Identifiers are collision-resistant random values and are never
	// client-suppliable. An empty name defaults to a placeholder derived
	// from the generated identifier.
	Create(ctx context.Context, name, displayName string) (*User, error)

	// Get retrieves a user by identifier.
	// Returns ErrUserNotFound if the user does not exist.
	Get(ctx context.Context, userID string) (*User, error)
}

// CredentialStore manages registered credential persistence. A user may
// own zero or more credentials; credentials are never deleted (no
// revocation ceremony).
type CredentialStore interface {
	// Add stores a new credential for the user.
	// Returns ErrCredentialAlreadyExists on a duplicate credential ID.
	Add(ctx context.Context, userID string, cred *Credential) error

	// List retrieves all credentials for a user. Returns an empty slice
	// if the user has none.
	List(ctx context.Context, userID string) ([]*Credential, error)

	// Find retrieves one of the user's credentials by credential ID.
	// Returns ErrCredentialNotFound if absent.
	Find(ctx context.Context, userID string, credentialID []byte) (*Credential, error)

	// UpdateCounter records the signature counter reported by a verified
	// assertion. The stored counter is monotonically non-decreasing: a
	// newCount at or below the stored value fails with ErrCounterRegressed.
	// A newCount of zero against a stored zero is a no-op success, since
	// such authenticators do not implement a counter. Enforced here so the
	// invariant cannot be bypassed around the orchestrator.
	UpdateCounter(ctx context.Context, userID string, credentialID []byte, newCount uint32) error
}

// ChallengeStore holds at most one outstanding challenge per user
// between the begin and complete calls of a ceremony.
type ChallengeStore interface {
	// Put stores the challenge for its user, unconditionally replacing
	// any existing entry. A later begin call invalidates an earlier one.
	Put(ctx context.Context, challenge *Challenge) error

	// Take retrieves and deletes the user's challenge in one atomic step,
	// so concurrent completions race such that at most one observes it.
	// Returns ErrChallengeNotFound if absent or expired.
	Take(ctx context.Context, userID string) (*Challenge, error)
}

// Verifier is the boundary to the cryptographic primitives: it
// synthesizes ceremony options carrying fresh challenges and validates
// attestation/assertion responses. It alone understands the CBOR-encoded
// authenticator payloads and signature algorithms (ES256/RS256 class).
// The ceremony state machine is testable against a scripted fake.
type Verifier interface {
	// RegistrationOptions produces credential-creation options scoped to
	// the user and relying party, excluding already-registered credentials.
	RegistrationOptions(user *User, exclusions []protocol.CredentialDescriptor) (*protocol.CredentialCreation, *webauthn.SessionData, error)

	// VerifyRegistration validates an attestation response against the
	// session's expected challenge, origin, and RP ID, returning the new
	// credential's public key, ID, and initial counter.
	VerifyRegistration(user *User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)

	// AssertionOptions produces credential-request options for the user's
	// credentials. A nil challenge means a fresh random one; a non-nil
	// challenge overrides it (the signing ceremony passes a payload hash).
	AssertionOptions(user *User, creds []*Credential, challenge []byte) (*protocol.CredentialAssertion, *webauthn.SessionData, error)

	// VerifyAssertion validates an assertion response against the stored
	// credential material, returning the matched credential with its
	// updated sign count and clone warning.
	VerifyAssertion(user *User, creds []*Credential, session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error)
}

// TokenIssuer is an optional interface for minting session tokens after
// a successful authentication or signing ceremony.
type TokenIssuer interface {
	// IssueToken creates a token for the authenticated user.
	IssueToken(ctx context.Context, user *User) (string, error)
}
