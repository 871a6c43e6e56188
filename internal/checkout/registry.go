package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
)

// Registry holds the live checkout sessions for the process. It is the
// server-side analogue of "one browser tab per session": each Session
// serializes its own mutations, the registry only hands out handles.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
}

func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &Registry{
		sessions: map[string]*Session{},
		deps:     deps,
	}, nil
}

// Create starts a new session under a fresh ID.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	sess, err := NewSession(ctx, id, r.deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	return sess, nil
}

// Get returns the live session for an ID. A session that only exists
// as a persisted snapshot is revived on demand, so a restarted process
// does not orphan its clients.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return sess, nil
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown session")
	}

	sess, err := NewSession(ctx, id, r.deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[id]; ok {
		return existing, nil
	}
	r.sessions[id] = sess
	return sess, nil
}

// Reset tears the session down, clears its persisted state, and hands
// back a fresh session under the same ID.
func (r *Registry) Reset(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	if old, ok := r.sessions[id]; ok {
		old.mu.Lock()
		old.stopAll()
		old.mu.Unlock()
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if err := r.deps.Store.Reset(ctx, id); err != nil {
		return nil, err
	}

	sess, err := NewSession(ctx, id, r.deps)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	return sess, nil
}
