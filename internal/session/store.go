// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authenticated session: the credential store, the
// entry sequence that brings a session up, the mood poller, and the single
// teardown funnel that brings it all down together.
package session

import (
	"sync"

	"github.com/moodchat/moodchat-tui/internal/model"
)

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// Store holds the session credential and the identity bound to it. All
// access is mutex-guarded; the poller and the UI loop both read it.
type Store struct {
	mu       sync.Mutex
	token    string
	identity model.Identity
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Set installs the credential and identity for a new session.
func (s *Store) Set(token string, ident model.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = ident
}

// Token returns the session credential, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns the identity bound to the credential.
func (s *Store) Identity() model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Authenticated reports whether a credential is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Clear wipes the credential and identity. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = model.Identity{}
}
