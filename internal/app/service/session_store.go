package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/internal/app/repository"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
)

// CartNotifier receives a cart snapshot after every committed change.
type CartNotifier interface {
	Publish(sessionID string, snapshot model.CartSnapshot)
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// sessionLocker hands out one mutex per session id and forgets it once
// nobody holds or waits for it.
type sessionLocker struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

func newSessionLocker() *sessionLocker {
	return &sessionLocker{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocker) lock(id string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// SessionStore is the single writer for visitor sessions. Every change goes
// through Update, which serializes writers of the same session.
type SessionStore struct {
	repo     repository.SessionRepository
	locks    *sessionLocker
	notifier CartNotifier
}

func NewSessionStore(repo repository.SessionRepository, notifier CartNotifier) *SessionStore {
	return &SessionStore{
		repo:     repo,
		locks:    newSessionLocker(),
		notifier: notifier,
	}
}

// View loads a session, or a fresh one if the id is unknown. Nothing is saved.
func (s *SessionStore) View(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return model.NewSession(id), nil
	}
	return session, err
}

// Update runs fn on the current session and saves the result. When fn
// fails nothing is saved and its error is returned as is.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.View(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	session.Touch()
	if err := s.repo.Save(ctx, session); err != nil {
		logger.Error("Failed to save session", err, logger.Fields{
			"session_id": id,
		})
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Publish(id, session.Cart.Snapshot())
	}
	return session, nil
}

// Sweep removes idle sessions from the backing repository.
func (s *SessionStore) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	return s.repo.Sweep(ctx, ttl)
}
