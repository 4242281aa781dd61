// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package http

import (
	"encoding/json"

	"github.com/go-webauthn/webauthn/protocol"
)

// RegisterBeginRequest is the request body for starting registration.
type RegisterBeginRequest struct {
	// Username is optional; the server derives a placeholder when empty.
	Username string `json:"username,omitempty"`
}

// RegisterBeginResponse carries the credential-creation options and the
// server-generated user ID the client must present at completion.
type RegisterBeginResponse struct {
	Options *protocol.CredentialCreation `json:"options"`
	UserID  string                       `json:"userId"`
}

// RegisterCompleteRequest is the request body for finishing registration.
// AttestationResponse is the authenticator's credential-creation response
// exactly as produced by the browser.
type RegisterCompleteRequest struct {
	UserID              string          `json:"userId"`
	AttestationResponse json.RawMessage `json:"attestationResponse"`
}

// AuthenticatorInfo describes the credential stored by a successful
// registration.
type AuthenticatorInfo struct {
	// CredentialID is the base64url-encoded credential identifier.
	CredentialID string `json:"credentialId"`
	UserID       string `json:"userId"`
}

// RegisterCompleteResponse is the response for a finished registration.
type RegisterCompleteResponse struct {
	Verified      bool              `json:"verified"`
	Authenticator AuthenticatorInfo `json:"authenticator"`
}

// AuthenticateBeginRequest is the request body for starting authentication.
type AuthenticateBeginRequest struct {
	UserID string `json:"userId"`
}

// AssertionOptionsResponse carries credential-request options for the
// authentication and signing ceremonies.
type AssertionOptionsResponse struct {
	Options *protocol.CredentialAssertion `json:"options"`
}

// AuthenticateCompleteRequest is the request body for finishing
// authentication or signing.
type AuthenticateCompleteRequest struct {
	UserID            string          `json:"userId"`
	AssertionResponse json.RawMessage `json:"assertionResponse"`
}

// AuthenticateCompleteResponse is the response for a finished
// authentication.
type AuthenticateCompleteResponse struct {
	Verified bool   `json:"verified"`
	UserID   string `json:"userId"`
	// Token is present when the service is configured with a token issuer.
	Token string `json:"token,omitempty"`
}

// SignBeginRequest is the request body for starting a signing ceremony.
type SignBeginRequest struct {
	UserID string `json:"userId"`
	// Data is the payload to be signed. Must be non-empty.
	Data string `json:"data"`
}

// SignCompleteResponse is the response for a finished signing ceremony:
// the original payload plus the raw signature material.
type SignCompleteResponse struct {
	Verified bool   `json:"verified"`
	Data     string `json:"data"`
	// Signature and AuthenticatorData are base64url-encoded raw bytes.
	Signature         string `json:"signature"`
	AuthenticatorData string `json:"authenticatorData"`
}

// ErrorResponse is the response format for errors.
type ErrorResponse struct {
	// Error is the stable error code.
	Error string `json:"error"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeUserNotFound        = "user_not_found"
	ErrorCodeCredentialNotFound  = "credential_not_found"
	ErrorCodeChallengeNotFound   = "challenge_not_found"
	ErrorCodeNoCredentials       = "no_credentials"
	ErrorCodeVerificationFailed  = "verification_failed"
	ErrorCodeCounterRegressed    = "counter_regressed"
	ErrorCodeVerificationTimeout = "verification_timeout"
	ErrorCodeInternalError       = "internal_error"
)
