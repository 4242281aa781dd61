// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"errors"
	"fmt"
)

// Sentinel errors for ceremony operations.
var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrCredentialNotFound is returned when a credential cannot be found.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialAlreadyExists is returned when registering a duplicate credential.
	ErrCredentialAlreadyExists = errors.New("credential already exists")

	// ErrChallengeNotFound is returned when no outstanding challenge exists
	// for the user, or the outstanding challenge belongs to a different
	// ceremony. A consumed, expired, or overwritten challenge reports the
	// same condition.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrNoCredentials is returned when a user has no registered credentials.
	ErrNoCredentials = errors.New("user has no registered credentials")

	// ErrVerificationFailed is returned when cryptographic verification of
	// an attestation or assertion fails.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrCounterRegressed is returned when an assertion reports a signature
	// counter that did not increase. This is the cloned-authenticator signal.
	ErrCounterRegressed = errors.New("signature counter regressed")

	// ErrVerificationTimeout is returned when the verifier did not complete
	// within the configured adapter timeout.
	ErrVerificationTimeout = errors.New("verification timed out")

	// ErrInvalidInput is returned when a request is missing a required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured is returned when the service is not properly configured.
	ErrNotConfigured = errors.New("ceremony service not configured")
)

// CeremonyError wraps an error with the operation that produced it.
type CeremonyError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

// Error returns the error message.
func (e *CeremonyError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CeremonyError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches.
func (e *CeremonyError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new CeremonyError with the given operation and error.
func NewError(op string, err error) error {
	return &CeremonyError{
		Op:  op,
		Err: err,
	}
}

// WrapError wraps an error with an operation name if it's not nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(op, err)
}

// IsUserNotFound returns true if the error indicates a user was not found.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsCredentialNotFound returns true if the error indicates a credential was not found.
func IsCredentialNotFound(err error) bool {
	return errors.Is(err, ErrCredentialNotFound)
}

// IsChallengeNotFound returns true if the error indicates no outstanding challenge.
func IsChallengeNotFound(err error) bool {
	return errors.Is(err, ErrChallengeNotFound)
}

// IsVerificationFailed returns true if the error indicates verification failed.
func IsVerificationFailed(err error) bool {
	return errors.Is(err, ErrVerificationFailed)
}

// IsCounterRegressed returns true if the error indicates a non-increasing
// signature counter.
func IsCounterRegressed(err error) bool {
	return errors.Is(err, ErrCounterRegressed)
}
