// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeremonyError_Error(t *testing.T) {
	err := NewError("take challenge", ErrChallengeNotFound)
	assert.Equal(t, "take challenge: challenge not found", err.Error())

	bare := &CeremonyError{Err: ErrUserNotFound}
	assert.Equal(t, "user not found", bare.Error())
}

func TestCeremonyError_Unwrap(t *testing.T) {
	err := NewError("get user", ErrUserNotFound)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var cerr *CeremonyError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, "get user", cerr.Op)
}

func TestCeremonyError_WrappedChain(t *testing.T) {
	// Sentinels survive a second layer of wrapping.
	inner := fmt.Errorf("%w: signature mismatch", ErrVerificationFailed)
	err := NewError("verify assertion", inner)

	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.NotErrorIs(t, err, ErrCounterRegressed)
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError("anything", nil))
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		helper  func(error) bool
		matches bool
	}{
		{"user not found", NewError("op", ErrUserNotFound), IsUserNotFound, true},
		{"credential not found", NewError("op", ErrCredentialNotFound), IsCredentialNotFound, true},
		{"challenge not found", NewError("op", ErrChallengeNotFound), IsChallengeNotFound, true},
		{"verification failed", NewError("op", ErrVerificationFailed), IsVerificationFailed, true},
		{"counter regressed", NewError("op", ErrCounterRegressed), IsCounterRegressed, true},
		{"mismatch", NewError("op", ErrUserNotFound), IsChallengeNotFound, false},
		{"unrelated", errors.New("boom"), IsUserNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.helper(tt.err))
		})
	}
}
