// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"testing"

	"github.com/descope/virtualwebauthn"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// integrationEnv bundles a service with a virtual authenticator so the
// full ceremonies can run against real attestation and assertion
// cryptography.
type integrationEnv struct {
	svc           *Service
	rp            virtualwebauthn.RelyingParty
	authenticator virtualwebauthn.Authenticator
	credential    virtualwebauthn.Credential
}

func newIntegrationEnv(t *testing.T, issuer TokenIssuer) *integrationEnv {
	t.Helper()

	cfg := &Config{
		RPID:          "example.com",
		RPDisplayName: "Example Corp",
		RPOrigins:     []string{"https://example.com"},
	}

	svc, err := NewService(ServiceParams{
		Config:          cfg,
		UserStore:       NewMemoryUserStore(),
		CredentialStore: NewMemoryCredentialStore(),
		ChallengeStore:  NewMemoryChallengeStore(),
		TokenIssuer:     issuer,
	})
	require.NoError(t, err)

	return &integrationEnv{
		svc: svc,
		rp: virtualwebauthn.RelyingParty{
			Name:   cfg.RPDisplayName,
			ID:     cfg.RPID,
			Origin: cfg.RPOrigins[0],
		},
		authenticator: virtualwebauthn.NewAuthenticator(),
		credential:    virtualwebauthn.NewCredential(virtualwebauthn.KeyTypeEC2),
	}
}

// register runs the full registration ceremony and returns the new
// user's ID.
func (e *integrationEnv) register(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()

	options, userID, err := e.svc.BeginRegistration(ctx, username)
	require.NoError(t, err)

	optionsJSON, err := json.Marshal(options.Response)
	require.NoError(t, err)

	parsedOptions, err := virtualwebauthn.ParseAttestationOptions(string(optionsJSON))
	require.NoError(t, err)

	attestationResponse := virtualwebauthn.CreateAttestationResponse(e.rp, e.authenticator, e.credential, *parsedOptions)

	parsedResponse, err := parseAttestationResponse(attestationResponse)
	require.NoError(t, err)

	_, err = e.svc.FinishRegistration(ctx, userID, parsedResponse)
	require.NoError(t, err)

	e.authenticator.AddCredential(e.credential)
	return userID
}

// assert produces a parsed assertion response for the given options,
// incrementing the virtual authenticator's counter first.
func (e *integrationEnv) assert(t *testing.T, options *protocol.CredentialAssertion) *protocol.ParsedCredentialAssertionData {
	t.Helper()

	optionsJSON, err := json.Marshal(options.Response)
	require.NoError(t, err)

	parsedOptions, err := virtualwebauthn.ParseAssertionOptions(string(optionsJSON))
	require.NoError(t, err)

	// Real authenticators increment the counter on every assertion.
	e.credential.Counter++

	assertionResponse := virtualwebauthn.CreateAssertionResponse(e.rp, e.authenticator, e.credential, *parsedOptions)

	parsedResponse, err := parseAssertionResponse(assertionResponse)
	require.NoError(t, err)
	return parsedResponse
}

func TestIntegration_FullRegistrationFlow(t *testing.T) {
	env := newIntegrationEnv(t, nil)
	ctx := context.Background()

	options, userID, err := env.svc.BeginRegistration(ctx, "testuser")
	require.NoError(t, err)
	require.NotNil(t, options)
	require.NotEmpty(t, userID)

	assert.Equal(t, "example.com", options.Response.RelyingParty.ID)
	assert.Equal(t, "Example Corp", options.Response.RelyingParty.Name)
	assert.Equal(t, "testuser", options.Response.User.Name)
	assert.NotEmpty(t, options.Response.Challenge)

	optionsJSON, err := json.Marshal(options.Response)
	require.NoError(t, err)

	parsedOptions, err := virtualwebauthn.ParseAttestationOptions(string(optionsJSON))
	require.NoError(t, err)

	attestationResponse := virtualwebauthn.CreateAttestationResponse(env.rp, env.authenticator, env.credential, *parsedOptions)

	parsedResponse, err := parseAttestationResponse(attestationResponse)
	require.NoError(t, err)

	result, err := env.svc.FinishRegistration(ctx, userID, parsedResponse)
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	assert.NotEmpty(t, result.CredentialID)

	creds, err := env.svc.GetCredentials(ctx, userID)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, result.CredentialID, creds[0].ID)
	assert.Equal(t, uint32(0), creds[0].SignCount)
}

func TestIntegration_RegistrationGeneratesPlaceholderUsername(t *testing.T) {
	env := newIntegrationEnv(t, nil)
	ctx := context.Background()

	userID := env.register(t, "")

	user, err := env.svc.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "user_"+userID[:6], user.Name)
}

func TestIntegration_FullAuthenticationFlow(t *testing.T) {
	issuer, err := NewHMACTokenIssuer(TokenConfig{SigningKey: []byte("integration-secret")})
	require.NoError(t, err)

	env := newIntegrationEnv(t, issuer)
	ctx := context.Background()

	userID := env.register(t, "logintest")

	options, err := env.svc.BeginAuthentication(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, options)
	assert.NotEmpty(t, options.Response.Challenge)
	assert.Equal(t, "example.com", options.Response.RelyingPartyID)
	assert.Len(t, options.Response.AllowedCredentials, 1)

	parsedResponse := env.assert(t, options)

	result, err := env.svc.FinishAuthentication(ctx, userID, parsedResponse)
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	require.NotEmpty(t, result.Token)

	claims, err := issuer.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims["sub"])
}

func TestIntegration_AuthenticationReplayRejected(t *testing.T) {
	env := newIntegrationEnv(t, nil)
	ctx := context.Background()

	userID := env.register(t, "replaytest")

	options, err := env.svc.BeginAuthentication(ctx, userID)
	require.NoError(t, err)

	parsedResponse := env.assert(t, options)

	_, err = env.svc.FinishAuthentication(ctx, userID, parsedResponse)
	require.NoError(t, err)

	// The same assertion presented again finds no challenge.
	_, err = env.svc.FinishAuthentication(ctx, userID, parsedResponse)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestIntegration_SignCountValidation(t *testing.T) {
	env := newIntegrationEnv(t, nil)
	ctx := context.Background()

	userID := env.register(t, "signcount")

	creds, err := env.svc.GetCredentials(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), creds[0].SignCount)

	numLogins := 3
	for i := 0; i < numLogins; i++ {
		options, err := env.svc.BeginAuthentication(ctx, userID)
		require.NoError(t, err)

		parsedResponse := env.assert(t, options)

		_, err = env.svc.FinishAuthentication(ctx, userID, parsedResponse)
		require.NoError(t, err)
	}

	creds, err = env.svc.GetCredentials(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, uint32(numLogins), creds[0].SignCount)
}

func TestIntegration_FullSigningFlow(t *testing.T) {
	env := newIntegrationEnv(t, nil)
	ctx := context.Background()

	userID := env.register(t, "signer")

	payload := []byte("hello world")
	options, err := env.svc.BeginSigning(ctx, userID, payload)
	require.NoError(t, err)
	require.NotNil(t, options)

	// The challenge is the SHA-256 of the payload, not a random value.
	digest := sha256.Sum256(payload)
	assert.Equal(t, digest[:], []byte(options.Response.Challenge))

	parsedResponse := env.assert(t, options)

	result, err := env.svc.FinishSigning(ctx, userID, parsedResponse)
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)

	// The payload round-trips byte for byte; signature and authenticator
	// data are the raw assertion material.
	assert.Equal(t, payload, result.Data)
	assert.NotEmpty(t, result.Signature)
	assert.NotEmpty(t, result.AuthenticatorData)
	assert.Equal(t, []byte(parsedResponse.Raw.AssertionResponse.Signature), result.Signature)
	assert.Equal(t, []byte(parsedResponse.Raw.AssertionResponse.AuthenticatorData), result.AuthenticatorData)
}

func TestIntegration_SigningThenAuthentication(t *testing.T) {
	env := newIntegrationEnv(t, nil)
	ctx := context.Background()

	userID := env.register(t, "mixed")

	// Sign a document, then authenticate; the counter keeps advancing
	// across ceremony kinds.
	signOptions, err := env.svc.BeginSigning(ctx, userID, []byte("document"))
	require.NoError(t, err)

	_, err = env.svc.FinishSigning(ctx, userID, env.assert(t, signOptions))
	require.NoError(t, err)

	authOptions, err := env.svc.BeginAuthentication(ctx, userID)
	require.NoError(t, err)

	_, err = env.svc.FinishAuthentication(ctx, userID, env.assert(t, authOptions))
	require.NoError(t, err)

	creds, err := env.svc.GetCredentials(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), creds[0].SignCount)
}

// parseAttestationResponse parses a virtual authenticator attestation
// response into the format expected by go-webauthn.
func parseAttestationResponse(attestation string) (*protocol.ParsedCredentialCreationData, error) {
	var ccr protocol.CredentialCreationResponse
	if err := json.Unmarshal([]byte(attestation), &ccr); err != nil {
		return nil, err
	}
	return ccr.Parse()
}

// parseAssertionResponse parses a virtual authenticator assertion
// response into the format expected by go-webauthn.
func parseAssertionResponse(assertion string) (*protocol.ParsedCredentialAssertionData, error) {
	var car protocol.CredentialAssertionResponse
	if err := json.Unmarshal([]byte(assertion), &car); err != nil {
		return nil, err
	}
	return car.Parse()
}
