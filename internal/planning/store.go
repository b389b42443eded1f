package planning

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for lookups of unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is one planning session: the current Plan value plus the last
// successfully synthesized scheme document, if any.
type Session struct {
	ID        string         `json:"id"`
	Plan      Plan           `json:"plan"`
	Scheme    map[string]any `json:"scheme,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Store holds planning sessions. Implementations own the only mutable
// reference to each Plan; all transitions flow through Update.
type Store interface {
	Create(plan Plan) (Session, error)
	Get(id string) (Session, error)
	// Update applies fn to the stored session under the store's lock and
	// persists the result. fn receives a copy and returns the new value.
	Update(id string, fn func(Session) (Session, error)) (Session, error)
	Delete(id string) error
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	sessions map[string]Session
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Create(plan Plan) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess := Session{
		ID:        uuid.NewString(),
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *MemoryStore) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Update(id string, fn func(Session) (Session, error)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	next, err := fn(sess)
	if err != nil {
		return Session{}, err
	}
	next.ID = sess.ID
	next.CreatedAt = sess.CreatedAt
	next.UpdatedAt = time.Now()
	s.sessions[id] = next
	return next, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}
