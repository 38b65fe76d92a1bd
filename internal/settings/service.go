// Package settings loads and saves a user's scenario settings through a
// store. It is the only place that combines a session with persistence.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/session"
	"github.com/iwvelando/finance-calculator/internal/store"
	"go.uber.org/zap"
)

// ErrUnauthenticated is returned when an operation needs a signed-in user.
var ErrUnauthenticated = errors.New("no authenticated user")

// PersistenceError reports a failed load or save.
type PersistenceError struct {
	Op     string
	UserID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s settings for %s: %v", e.Op, e.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Snapshot is a user's settings together with the stored revision.
type Snapshot struct {
	Settings  config.Settings
	Revision  string
	UpdatedAt time.Time
	// Created is set when defaults were written because nothing was stored.
	Created bool
}

// Service serializes load and save calls per user.
type Service struct {
	store  store.Store
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wraps a store.
func NewService(logger *zap.Logger, st store.Store) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, logger: logger, locks: make(map[string]*sync.Mutex)}
}

func (s *Service) lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Load returns the stored settings for the session's user. A user without a
// stored record gets the default settings, which are saved before returning.
func (s *Service) Load(ctx context.Context, sess session.Session) (Snapshot, error) {
	if !sess.Authenticated() {
		return Snapshot{}, ErrUnauthenticated
	}
	unlock := s.lock(sess.UserID)
	defer unlock()

	rec, err := s.store.Load(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Info("no stored settings, writing defaults",
			zap.String("op", "settings.Load"),
			zap.String("user", sess.UserID),
		)
		snapshot, saveErr := s.save(ctx, sess.UserID, config.DefaultSettings())
		if saveErr != nil {
			return Snapshot{}, saveErr
		}
		snapshot.Created = true
		return snapshot, nil
	}
	if err != nil {
		return Snapshot{}, s.fail("load", sess.UserID, err)
	}

	stored, err := config.UnmarshalDocument(rec.Document)
	if err != nil {
		return Snapshot{}, s.fail("load", sess.UserID, err)
	}

	s.logger.Debug("loaded settings",
		zap.String("op", "settings.Load"),
		zap.String("user", sess.UserID),
		zap.String("revision", rec.Revision),
	)
	return Snapshot{Settings: stored, Revision: rec.Revision, UpdatedAt: rec.UpdatedAt}, nil
}

// Save stores the raw settings for the session's user, replacing any
// previous record.
func (s *Service) Save(ctx context.Context, sess session.Session, settings config.Settings) (Snapshot, error) {
	if !sess.Authenticated() {
		return Snapshot{}, ErrUnauthenticated
	}
	unlock := s.lock(sess.UserID)
	defer unlock()

	return s.save(ctx, sess.UserID, settings)
}

// Reset deletes the stored record so the next Load starts from defaults.
func (s *Service) Reset(ctx context.Context, sess session.Session) error {
	if !sess.Authenticated() {
		return ErrUnauthenticated
	}
	unlock := s.lock(sess.UserID)
	defer unlock()

	if err := s.store.Delete(ctx, sess.UserID); err != nil {
		return s.fail("reset", sess.UserID, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, userID string, settings config.Settings) (Snapshot, error) {
	doc, err := settings.MarshalDocument()
	if err != nil {
		return Snapshot{}, s.fail("save", userID, err)
	}

	rec, err := s.store.Save(ctx, userID, doc)
	if err != nil {
		return Snapshot{}, s.fail("save", userID, err)
	}

	s.logger.Debug("saved settings",
		zap.String("op", "settings.Save"),
		zap.String("user", userID),
		zap.String("revision", rec.Revision),
	)
	return Snapshot{Settings: settings.Clone(), Revision: rec.Revision, UpdatedAt: rec.UpdatedAt}, nil
}

func (s *Service) fail(op, userID string, err error) error {
	s.logger.Error("settings persistence failed",
		zap.String("op", "settings."+op),
		zap.String("user", userID),
		zap.Error(err),
	)
	return &PersistenceError{Op: op, UserID: userID, Err: err}
}
