package sessionstore

import (
	"context"
	"sync"

	"study-material-platform/internal/apperr"
	"study-material-platform/models"
)

// MemoryStore keeps sessions in a process-local map. It is the default
// store and the only one that can hold the Q-table and bandit maps
// without a serialization round-trip.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.QuizSession
	locks    sync.Map // sessionID -> *sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.QuizSession)}
}

func (m *MemoryStore) Create(_ context.Context, session *models.QuizSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = session
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*models.QuizSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, apperr.NotFound("session not found", nil)
	}
	return session, nil
}

func (m *MemoryStore) Save(_ context.Context, session *models.QuizSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = session
	return nil
}

func (m *MemoryStore) Lock(sessionID string) (func(), bool) {
	lockAny, _ := m.locks.LoadOrStore(sessionID, &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	if !lock.TryLock() {
		return nil, false
	}
	return lock.Unlock, true
}
