// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package ceremony

import (
	"bytes"
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUserStore is an in-memory implementation of UserStore.
// This is intended for development and testing only.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*User),
	}
}

// Create creates a new user with a random identifier.
func (s *MemoryUserStore) Create(ctx context.Context, name, displayName string) (*User, error) {
	id := uuid.New()
	idStr := hex.EncodeToString(id[:])

	if name == "" {
		name = "user_" + idStr[:6]
	}
	if displayName == "" {
		displayName = name
	}

	user := &User{
		ID:          idStr,
		Name:        name,
		DisplayName: displayName,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user

	return user, nil
}

// Get retrieves a user by identifier.
func (s *MemoryUserStore) Get(ctx context.Context, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Count returns the number of users in the store.
func (s *MemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Clear removes all users from the store.
func (s *MemoryUserStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*User)
}

// MemoryCredentialStore is an in-memory implementation of CredentialStore.
// This is intended for development and testing only.
type MemoryCredentialStore struct {
	mu     sync.RWMutex
	byUser map[string][]*Credential
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byUser: make(map[string][]*Credential),
	}
}

// Add stores a new credential for the user.
func (s *MemoryCredentialStore) Add(ctx context.Context, userID string, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.byUser[userID] {
		if bytes.Equal(c.ID, cred.ID) {
			return ErrCredentialAlreadyExists
		}
	}

	s.byUser[userID] = append(s.byUser[userID], cred)
	return nil
}

// List retrieves all credentials for a user.
func (s *MemoryCredentialStore) List(ctx context.Context, userID string) ([]*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds := s.byUser[userID]

	// Return a copy to prevent external modification of the slice.
	result := make([]*Credential, len(creds))
	copy(result, creds)
	return result, nil
}

// Find retrieves one of the user's credentials by credential ID.
func (s *MemoryCredentialStore) Find(ctx context.Context, userID string, credentialID []byte) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.byUser[userID] {
		if bytes.Equal(c.ID, credentialID) {
			return c, nil
		}
	}
	return nil, ErrCredentialNotFound
}

// UpdateCounter records a verified assertion's signature counter. The
// monotonicity check happens under the same lock as the write so two
// concurrent updates cannot both succeed with stale values.
func (s *MemoryCredentialStore) UpdateCounter(ctx context.Context, userID string, credentialID []byte, newCount uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.byUser[userID] {
		if !bytes.Equal(c.ID, credentialID) {
			continue
		}
		if newCount == 0 && c.SignCount == 0 {
			// Authenticator without counter support; nothing to record.
			c.LastUsedAt = time.Now().UTC()
			return nil
		}
		if newCount <= c.SignCount {
			return ErrCounterRegressed
		}
		c.SignCount = newCount
		c.LastUsedAt = time.Now().UTC()
		return nil
	}
	return ErrCredentialNotFound
}

// Count returns the total number of credentials in the store.
func (s *MemoryCredentialStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, creds := range s.byUser {
		n += len(creds)
	}
	return n
}

// Clear removes all credentials from the store.
func (s *MemoryCredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser = make(map[string][]*Credential)
}

// MemoryChallengeStore is an in-memory implementation of ChallengeStore.
// This is intended for development and testing only.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
	ttl        time.Duration
}

// NewMemoryChallengeStore creates a new in-memory challenge store with a
// two minute advisory TTL.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return NewMemoryChallengeStoreWithTTL(2 * time.Minute)
}

// NewMemoryChallengeStoreWithTTL creates a new in-memory challenge store
// with a custom TTL. A zero TTL disables expiry.
func NewMemoryChallengeStoreWithTTL(ttl time.Duration) *MemoryChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[string]*Challenge),
		ttl:        ttl,
	}
}

// Put stores the challenge, unconditionally replacing any existing entry
// for the same user.
func (s *MemoryChallengeStore) Put(ctx context.Context, challenge *Challenge) error {
	if challenge.IssuedAt.IsZero() {
		challenge.IssuedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.UserID] = challenge
	return nil
}

// Take retrieves and deletes the user's challenge under one lock, so at
// most one concurrent caller observes it. Expired entries report
// ErrChallengeNotFound.
func (s *MemoryChallengeStore) Take(ctx context.Context, userID string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[userID]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	delete(s.challenges, userID)

	if s.ttl > 0 && time.Since(challenge.IssuedAt) > s.ttl {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

// Count returns the number of outstanding challenges.
func (s *MemoryChallengeStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}

// Clear removes all challenges from the store.
func (s *MemoryChallengeStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = make(map[string]*Challenge)
}
