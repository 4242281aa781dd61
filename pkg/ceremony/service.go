// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// Service drives the begin/complete state machine for the registration,
// authentication, and signing ceremonies. All ceremony state lives in
// the stores; the service holds nothing between the two round trips.
type Service struct {
	config     *Config
	users      UserStore
	creds      CredentialStore
	challenges ChallengeStore
	verifier   Verifier
	tokens     TokenIssuer // optional
}

// ServiceParams contains dependencies for creating a ceremony service.
type ServiceParams struct {
	// Config is the relying-party configuration (required).
	Config *Config

	// UserStore is the identity persistence layer (required).
	UserStore UserStore

	// CredentialStore is the credential persistence layer (required).
	CredentialStore CredentialStore

	// ChallengeStore holds outstanding challenges (required).
	ChallengeStore ChallengeStore

	// Verifier is the cryptographic validation boundary. If nil, a
	// GoWebAuthnVerifier is built from Config.
	Verifier Verifier

	// TokenIssuer optionally mints a session token after successful
	// authentication. If nil, no token is issued.
	TokenIssuer TokenIssuer
}

// NewService creates a new ceremony service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if params.UserStore == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if params.CredentialStore == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if params.ChallengeStore == nil {
		return nil, fmt.Errorf("challenge store is required")
	}

	params.Config.SetDefaults()
	if err := params.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	verifier := params.Verifier
	if verifier == nil {
		v, err := NewGoWebAuthnVerifier(params.Config)
		if err != nil {
			return nil, err
		}
		verifier = v
	}

	return &Service{
		config:     params.Config,
		users:      params.UserStore,
		creds:      params.CredentialStore,
		challenges: params.ChallengeStore,
		verifier:   verifier,
		tokens:     params.TokenIssuer,
	}, nil
}

// BeginRegistration starts the registration ceremony: it creates a new
// user with a server-generated identifier, issues a challenge, and
// returns the credential-creation options together with the user ID the
// client must present at completion.
func (s *Service) BeginRegistration(ctx context.Context, username string) (*protocol.CredentialCreation, string, error) {
	user, err := s.users.Create(ctx, username, username)
	if err != nil {
		return nil, "", WrapError("create user", err)
	}

	// A freshly created user has no credentials to exclude.
	options, session, err := s.verifier.RegistrationOptions(user, nil)
	if err != nil {
		return nil, "", WrapError("registration options", err)
	}

	if err := s.challenges.Put(ctx, &Challenge{
		UserID:  user.ID,
		Kind:    KindRegistration,
		Session: *session,
	}); err != nil {
		return nil, "", WrapError("store challenge", err)
	}

	return options, user.ID, nil
}

// FinishRegistration completes the registration ceremony. The user's
// outstanding challenge is consumed before verification, so a failed
// attempt cannot be replayed. On success the verified credential is
// stored with its initial signature counter.
func (s *Service) FinishRegistration(ctx context.Context, userID string, response *protocol.ParsedCredentialCreationData) (*RegistrationResult, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, WrapError("get user", err)
	}

	challenge, err := s.takeChallenge(ctx, userID, KindRegistration)
	if err != nil {
		return nil, err
	}

	verified, err := s.boundedVerify(ctx, "verify registration", func() (*webauthn.Credential, error) {
		return s.verifier.VerifyRegistration(user, challenge.Session, response)
	})
	if err != nil {
		return nil, err
	}

	cred := NewCredential(user.ID, verified)
	if err := s.creds.Add(ctx, user.ID, cred); err != nil {
		return nil, WrapError("store credential", err)
	}

	return &RegistrationResult{
		UserID:       user.ID,
		CredentialID: cred.ID,
	}, nil
}

// BeginAuthentication starts the authentication ceremony. It fails
// before issuing a challenge when the user is unknown or has no
// registered credentials.
func (s *Service) BeginAuthentication(ctx context.Context, userID string) (*protocol.CredentialAssertion, error) {
	user, creds, err := s.userWithCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	options, session, err := s.verifier.AssertionOptions(user, creds, nil)
	if err != nil {
		return nil, WrapError("assertion options", err)
	}

	if err := s.challenges.Put(ctx, &Challenge{
		UserID:  user.ID,
		Kind:    KindAuthentication,
		Session: *session,
	}); err != nil {
		return nil, WrapError("store challenge", err)
	}

	return options, nil
}

// FinishAuthentication completes the authentication ceremony, updating
// the credential's signature counter on success. When a TokenIssuer is
// configured, the result carries a session token.
func (s *Service) FinishAuthentication(ctx context.Context, userID string, response *protocol.ParsedCredentialAssertionData) (*AuthenticationResult, error) {
	user, _, cred, err := s.completeAssertion(ctx, userID, KindAuthentication, response)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthenticationResult{
		UserID:       user.ID,
		CredentialID: cred.ID,
		Token:        token,
	}, nil
}

// BeginSigning starts the signing ceremony. Unlike authentication, the
// challenge is not random: it is the SHA-256 hash of the payload, which
// binds the eventual assertion signature to the payload bytes. The
// payload is retained with the challenge for the complete call. A
// caller-supplied challenge is never accepted here.
func (s *Service) BeginSigning(ctx context.Context, userID string, data []byte) (*protocol.CredentialAssertion, error) {
	if len(data) == 0 {
		return nil, NewError("begin signing", fmt.Errorf("%w: no data provided to sign", ErrInvalidInput))
	}

	user, creds, err := s.userWithCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(data)
	options, session, err := s.verifier.AssertionOptions(user, creds, digest[:])
	if err != nil {
		return nil, WrapError("assertion options", err)
	}

	if err := s.challenges.Put(ctx, &Challenge{
		UserID:  user.ID,
		Kind:    KindSigning,
		Session: *session,
		Payload: data,
	}); err != nil {
		return nil, WrapError("store challenge", err)
	}

	return options, nil
}

// FinishSigning completes the signing ceremony. On success it returns
// the original payload together with the raw assertion signature and
// authenticator data, forming a detached signature verifiable against
// the credential's public key. Challenge and payload are consumed
// together regardless of outcome.
func (s *Service) FinishSigning(ctx context.Context, userID string, response *protocol.ParsedCredentialAssertionData) (*SigningResult, error) {
	user, challenge, cred, err := s.completeAssertion(ctx, userID, KindSigning, response)
	if err != nil {
		return nil, err
	}

	return &SigningResult{
		UserID:            user.ID,
		CredentialID:      cred.ID,
		Data:              challenge.Payload,
		Signature:         response.Raw.AssertionResponse.Signature,
		AuthenticatorData: response.Raw.AssertionResponse.AuthenticatorData,
	}, nil
}

// GetUser retrieves a user by identifier.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.users.Get(ctx, userID)
}

// GetCredentials retrieves all credentials registered to a user.
func (s *Service) GetCredentials(ctx context.Context, userID string) ([]*Credential, error) {
	return s.creds.List(ctx, userID)
}

// Config returns the service configuration.
func (s *Service) Config() *Config {
	return s.config
}

// userWithCredentials loads a user and their credential set, failing
// with ErrNoCredentials when the set is empty. Used by the assertion
// ceremonies, which cannot proceed without registered credentials.
func (s *Service) userWithCredentials(ctx context.Context, userID string) (*User, []*Credential, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, WrapError("get user", err)
	}

	creds, err := s.creds.List(ctx, userID)
	if err != nil {
		return nil, nil, WrapError("list credentials", err)
	}
	if len(creds) == 0 {
		return nil, nil, NewError("list credentials", ErrNoCredentials)
	}

	return user, creds, nil
}

// takeChallenge consumes the user's outstanding challenge and checks it
// belongs to the completing ceremony. A kind mismatch means the client
// is completing a stale ceremony and reports ErrChallengeNotFound; the
// mismatched challenge stays consumed either way.
func (s *Service) takeChallenge(ctx context.Context, userID string, kind ChallengeKind) (*Challenge, error) {
	challenge, err := s.challenges.Take(ctx, userID)
	if err != nil {
		return nil, WrapError("take challenge", err)
	}
	if challenge.Kind != kind {
		return nil, NewError("take challenge", ErrChallengeNotFound)
	}
	return challenge, nil
}

// completeAssertion is the shared completion path for authentication and
// signing: consume the challenge, resolve the responding credential,
// verify the assertion, and enforce counter monotonicity. Every failure
// after the Take leaves the challenge consumed and the stores untouched.
func (s *Service) completeAssertion(ctx context.Context, userID string, kind ChallengeKind, response *protocol.ParsedCredentialAssertionData) (*User, *Challenge, *Credential, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, nil, WrapError("get user", err)
	}

	challenge, err := s.takeChallenge(ctx, userID, kind)
	if err != nil {
		return nil, nil, nil, err
	}

	creds, err := s.creds.List(ctx, userID)
	if err != nil {
		return nil, nil, nil, WrapError("list credentials", err)
	}

	var cred *Credential
	for _, c := range creds {
		if bytes.Equal(c.ID, response.RawID) {
			cred = c
			break
		}
	}
	if cred == nil {
		return nil, nil, nil, NewError("resolve credential", ErrCredentialNotFound)
	}

	verified, err := s.boundedVerify(ctx, "verify assertion", func() (*webauthn.Credential, error) {
		return s.verifier.VerifyAssertion(user, creds, challenge.Session, response)
	})
	if err != nil {
		return nil, nil, nil, err
	}

	// A non-increasing counter is the cloned-authenticator signal, even
	// when the raw signature was valid. Counter-less authenticators
	// report zero forever and are exempt.
	newCount := verified.Authenticator.SignCount
	if verified.Authenticator.CloneWarning {
		return nil, nil, nil, NewError("verify assertion", ErrCounterRegressed)
	}
	if (newCount != 0 || cred.SignCount != 0) && newCount <= cred.SignCount {
		return nil, nil, nil, NewError("verify assertion", ErrCounterRegressed)
	}

	// The store re-checks monotonicity under its own lock.
	if err := s.creds.UpdateCounter(ctx, user.ID, cred.ID, newCount); err != nil {
		return nil, nil, nil, WrapError("update counter", err)
	}

	return user, challenge, cred, nil
}

// boundedVerify runs a verifier call under the adapter timeout. A
// ceremony whose verification exceeds the deadline fails closed: the
// challenge was already consumed and no state is mutated.
func (s *Service) boundedVerify(ctx context.Context, op string, fn func() (*webauthn.Credential, error)) (*webauthn.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.AdapterTimeout)
	defer cancel()

	type result struct {
		cred *webauthn.Credential
		err  error
	}
	done := make(chan result, 1)
	go func() {
		cred, err := fn()
		done <- result{cred, err}
	}()

	select {
	case <-ctx.Done():
		return nil, NewError(op, ErrVerificationTimeout)
	case r := <-done:
		if r.err != nil {
			return nil, NewError(op, fmt.Errorf("%w: %v", ErrVerificationFailed, r.err))
		}
		return r.cred, nil
	}
}

// issueToken mints a session token when a TokenIssuer is configured.
func (s *Service) issueToken(ctx context.Context, user *User) (string, error) {
	if s.tokens == nil {
		return "", nil
	}
	token, err := s.tokens.IssueToken(ctx, user)
	if err != nil {
		return "", WrapError("issue token", err)
	}
	return token, nil
}
