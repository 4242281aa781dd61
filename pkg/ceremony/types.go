// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// User is a relying-party account. Users are created at
// registration-begin with a server-generated identifier and are
// immutable afterwards; the identifier is the join key for credentials
// and challenges.
type User struct {
	// ID is the opaque, server-generated user identifier (hex-encoded
	// random bytes). It doubles as the WebAuthn user handle.
	ID string `json:"id"`

	// Name is the username supplied at registration.
	Name string `json:"name"`

	// DisplayName is the human-readable name shown by authenticator UIs.
	DisplayName string `json:"displayName"`
}

// Credential is one registered authenticator: the public key material a
// relying party stores, plus the signature counter used for clone
// detection. Created at registration-complete; only the counter and
// usage metadata change afterwards.
type Credential struct {
	// ID is the credential identifier assigned by the authenticator.
	ID []byte `json:"id"`

	// UserID is the owning user's identifier.
	UserID string `json:"userId"`

	// PublicKey is the credential's public key in COSE format.
	PublicKey []byte `json:"publicKey"`

	// AttestationType indicates the type of attestation used.
	AttestationType string `json:"attestationType"`

	// Transport lists the transports supported by the authenticator.
	Transport []protocol.AuthenticatorTransport `json:"transport,omitempty"`

	// AAGUID is the authenticator model identifier.
	AAGUID []byte `json:"aaguid"`

	// SignCount is the signature counter reported by the last verified
	// assertion. Monotonically non-decreasing.
	SignCount uint32 `json:"signCount"`

	// CloneWarning records that a verified assertion reported a
	// non-increasing counter at some point.
	CloneWarning bool `json:"cloneWarning"`

	// UserPresent, UserVerified, BackupEligible, and BackupState mirror
	// the authenticator flags observed at registration.
	UserPresent    bool `json:"userPresent"`
	UserVerified   bool `json:"userVerified"`
	BackupEligible bool `json:"backupEligible"`
	BackupState    bool `json:"backupState"`

	// CreatedAt is when the credential was registered.
	CreatedAt time.Time `json:"createdAt"`

	// LastUsedAt is when the credential last completed an assertion.
	LastUsedAt time.Time `json:"lastUsedAt,omitempty"`
}

// ToLibrary converts the credential to the go-webauthn representation
// used during assertion validation.
func (c *Credential) ToLibrary() webauthn.Credential {
	return webauthn.Credential{
		ID:              c.ID,
		PublicKey:       c.PublicKey,
		AttestationType: c.AttestationType,
		Transport:       c.Transport,
		Flags: webauthn.CredentialFlags{
			UserPresent:    c.UserPresent,
			UserVerified:   c.UserVerified,
			BackupEligible: c.BackupEligible,
			BackupState:    c.BackupState,
		},
		Authenticator: webauthn.Authenticator{
			AAGUID:       c.AAGUID,
			SignCount:    c.SignCount,
			CloneWarning: c.CloneWarning,
		},
	}
}

// NewCredential builds a Credential from a freshly verified go-webauthn
// credential.
func NewCredential(userID string, wc *webauthn.Credential) *Credential {
	return &Credential{
		ID:              wc.ID,
		UserID:          userID,
		PublicKey:       wc.PublicKey,
		AttestationType: wc.AttestationType,
		Transport:       wc.Transport,
		AAGUID:          wc.Authenticator.AAGUID,
		SignCount:       wc.Authenticator.SignCount,
		CloneWarning:    wc.Authenticator.CloneWarning,
		UserPresent:     wc.Flags.UserPresent,
		UserVerified:    wc.Flags.UserVerified,
		BackupEligible:  wc.Flags.BackupEligible,
		BackupState:     wc.Flags.BackupState,
		CreatedAt:       time.Now().UTC(),
	}
}

// ChallengeKind identifies which ceremony issued a challenge. A complete
// call only accepts a challenge of its own kind.
type ChallengeKind string

// Challenge kinds.
const (
	KindRegistration   ChallengeKind = "registration"
	KindAuthentication ChallengeKind = "authentication"
	KindSigning        ChallengeKind = "signing"
)

// Challenge is the single outstanding ceremony state for a user between
// the begin and complete calls. Issuing a new challenge for the same
// user overwrites the previous one; completing a ceremony consumes it
// whether or not validation succeeds.
type Challenge struct {
	// UserID is the user the challenge was issued to.
	UserID string

	// Kind is the ceremony that issued the challenge.
	Kind ChallengeKind

	// Session is the go-webauthn session data carrying the challenge
	// value, allowed credentials, and validity window.
	Session webauthn.SessionData

	// Payload is the caller-supplied bytes of a signing ceremony. Nil for
	// registration and authentication.
	Payload []byte

	// IssuedAt is when the begin call created the challenge.
	IssuedAt time.Time
}

// RegistrationResult is the outcome of a successful registration-complete.
type RegistrationResult struct {
	// UserID is the owner of the new credential.
	UserID string

	// CredentialID is the identifier of the stored credential.
	CredentialID []byte
}

// AuthenticationResult is the outcome of a successful authentication-complete.
type AuthenticationResult struct {
	// UserID is the authenticated user.
	UserID string

	// CredentialID is the credential that produced the assertion.
	CredentialID []byte

	// Token is a session token, present when the service has a TokenIssuer.
	Token string
}

// SigningResult is the outcome of a successful signing-complete: a
// detached, verifiable signature over the original payload.
type SigningResult struct {
	// UserID is the signing user.
	UserID string

	// CredentialID is the credential that produced the signature.
	CredentialID []byte

	// Data is the original payload, returned byte-for-byte.
	Data []byte

	// Signature is the raw assertion signature over
	// (authenticatorData || SHA-256(clientDataJSON)).
	Signature []byte

	// AuthenticatorData is the raw authenticator data covered by the
	// signature. Needed, with the clientDataJSON, to re-verify offline.
	AuthenticatorData []byte
}
