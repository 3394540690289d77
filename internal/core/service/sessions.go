package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rl1809/pedidos-client/internal/logger"
	"github.com/rl1809/pedidos-client/internal/port"
)

// SessionRegistry owns the navigators of the session service. All sessions
// share one catalog, submitter and tracker.
type SessionRegistry struct {
	catalog   *Catalog
	submitter *OrderSubmitter
	tracker   *StatusTracker
	events    port.EventPublisher
	log       *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Navigator
}

func NewSessionRegistry(catalog *Catalog, submitter *OrderSubmitter, tracker *StatusTracker, events port.EventPublisher, log *logger.Logger) *SessionRegistry {
	return &SessionRegistry{
		catalog:   catalog,
		submitter: submitter,
		tracker:   tracker,
		events:    events,
		log:       log,
		sessions:  make(map[string]*Navigator),
	}
}

func (r *SessionRegistry) Create() *Navigator {
	id := uuid.NewString()
	nav := NewNavigator(id, r.catalog, r.submitter, r.tracker, r.events, r.log)

	r.mu.Lock()
	r.sessions[id] = nav
	r.mu.Unlock()

	r.log.Info("session_created", id, "session created")
	return nav
}

func (r *SessionRegistry) Get(id string) (*Navigator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nav, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return nav, nil
}

func (r *SessionRegistry) Dispatch(ctx context.Context, id string, action Action) (View, error) {
	nav, err := r.Get(id)
	if err != nil {
		return View{}, err
	}
	return nav.Dispatch(ctx, action)
}

func (r *SessionRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.log.Info("session_deleted", id, "session deleted")
	return nil
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
