// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// rpUser adapts a User and its stored credentials to the webauthn.User
// interface the library validates against.
type rpUser struct {
	user  *User
	creds []*Credential
}

func (u *rpUser) WebAuthnID() []byte {
	return []byte(u.user.ID)
}

func (u *rpUser) WebAuthnName() string {
	return u.user.Name
}

func (u *rpUser) WebAuthnDisplayName() string {
	if u.user.DisplayName == "" {
		return u.user.Name
	}
	return u.user.DisplayName
}

func (u *rpUser) WebAuthnCredentials() []webauthn.Credential {
	creds := make([]webauthn.Credential, len(u.creds))
	for i, c := range u.creds {
		creds[i] = c.ToLibrary()
	}
	return creds
}

// GoWebAuthnVerifier implements Verifier on top of the
// go-webauthn/webauthn library. It is the only component that touches
// attestation objects, COSE keys, and assertion signatures.
type GoWebAuthnVerifier struct {
	wa *webauthn.WebAuthn
}

// NewGoWebAuthnVerifier creates a verifier for the configured relying party.
func NewGoWebAuthnVerifier(config *Config) (*GoWebAuthnVerifier, error) {
	wa, err := webauthn.New(config.ToWebAuthnConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create webauthn instance: %w", err)
	}
	return &GoWebAuthnVerifier{wa: wa}, nil
}

// RegistrationOptions produces credential-creation options with a fresh
// random challenge, excluding the given already-registered credentials.
func (v *GoWebAuthnVerifier) RegistrationOptions(user *User, exclusions []protocol.CredentialDescriptor) (*protocol.CredentialCreation, *webauthn.SessionData, error) {
	var opts []webauthn.RegistrationOption
	if len(exclusions) > 0 {
		opts = append(opts, webauthn.WithExclusions(exclusions))
	}
	return v.wa.BeginRegistration(&rpUser{user: user}, opts...)
}

// VerifyRegistration validates an attestation response against the
// session's challenge and the configured origin and RP ID.
func (v *GoWebAuthnVerifier) VerifyRegistration(user *User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	return v.wa.CreateCredential(&rpUser{user: user}, session, response)
}

// AssertionOptions produces credential-request options for the user's
// credentials. A non-nil challenge overrides the random one; the signing
// ceremony uses this to bind the assertion to a payload hash.
func (v *GoWebAuthnVerifier) AssertionOptions(user *User, creds []*Credential, challenge []byte) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	var opts []webauthn.LoginOption
	if challenge != nil {
		opts = append(opts, webauthn.WithChallenge(challenge))
	}
	return v.wa.BeginLogin(&rpUser{user: user, creds: creds}, opts...)
}

// VerifyAssertion validates an assertion response against the stored
// credential material. The returned credential carries the
// authenticator-reported sign count and the library's clone warning.
func (v *GoWebAuthnVerifier) VerifyAssertion(user *User, creds []*Credential, session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	return v.wa.ValidateLogin(&rpUser{user: user, creds: creds}, session, response)
}
