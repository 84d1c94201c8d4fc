package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/printforge/printforge-api/mesh"
)

// SessionStore holds the in-flight intake sessions. Sessions are never
// shared across flows; each HTTP handler locks the one session it touches.
// The long-running transitions (Upload, RequestQuote) run their slow work
// outside the session lock, so a newer request supersedes a stalled one
// instead of queueing behind it; the session's tokens discard the stale
// completion.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*lockedSession
}

type lockedSession struct {
	mu      sync.Mutex
	session *Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*lockedSession),
	}
}

// Create starts a new session and registers it.
func (st *SessionStore) Create() *Session {
	session := NewSession()

	st.mu.Lock()
	st.sessions[session.ID] = &lockedSession{session: session}
	st.mu.Unlock()

	return session
}

// With runs fn with exclusive access to the named session. It returns
// false when the session does not exist.
func (st *SessionStore) With(id uuid.UUID, fn func(*Session) error) (bool, error) {
	st.mu.RLock()
	entry, exists := st.sessions[id]
	st.mu.RUnlock()

	if !exists {
		return false, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return true, fn(entry.session)
}

// Upload parses model data for one session, with the parse running
// outside the session lock. An upload that starts while another parse is
// in flight supersedes it; the stale result is discarded by the token
// guard in the session.
func (st *SessionStore) Upload(id uuid.UUID, data []byte) (bool, error) {
	var token uint64
	found, _ := st.With(id, func(s *Session) error {
		token = s.beginUpload()
		return nil
	})
	if !found {
		return false, nil
	}

	estimate, parseErr := mesh.Parse(data)

	return st.With(id, func(s *Session) error {
		return s.completeUpload(token, estimate, parseErr)
	})
}

// RequestQuote runs the quote transition for one session, with the
// external quote and rate calls issued outside the session lock.
func (st *SessionStore) RequestQuote(ctx context.Context, id uuid.UUID) (bool, error) {
	var in quoteInputs
	found, err := st.With(id, func(s *Session) error {
		var beginErr error
		in, beginErr = s.beginQuote()
		return beginErr
	})
	if !found || err != nil {
		return found, err
	}

	quote, rates, fetchErr := fetchQuote(ctx, in)

	return st.With(id, func(s *Session) error {
		return s.completeQuote(in, quote, rates, fetchErr)
	})
}

// Delete removes a finished or abandoned session.
func (st *SessionStore) Delete(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of active sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
