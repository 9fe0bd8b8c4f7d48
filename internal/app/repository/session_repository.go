package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores visitor sessions. Implementations hand out
// copies: a loaded session never aliases stored state.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
	// Sweep drops sessions idle for longer than ttl and returns how many.
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]memoryEntry)}
}

func (r *memorySessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var session model.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *memorySessionRepository) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.sessions[session.ID] = memoryEntry{data: data, updatedAt: session.UpdatedAt}
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if entry.updatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		logger.Debug("Swept idle sessions", logger.Fields{
			"removed":   removed,
			"remaining": len(r.sessions),
		})
	}
	return removed, nil
}
