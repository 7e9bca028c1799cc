package session

import (
	"sync"
	"time"

	"github.com/apazos/monopoly-ledger/platform/economy"
	"github.com/apazos/monopoly-ledger/platform/ledger"
)

// StoreFactory builds the shared store for one session id.
type StoreFactory func(sessionID string) ledger.Store

// Manager hands out one Service per live session.
type Manager struct {
	mu       sync.Mutex
	services map[string]*Service
	newStore StoreFactory
	auth     ledger.Authority
}

func NewManager(newStore StoreFactory, auth ledger.Authority) *Manager {
	return &Manager{
		services: make(map[string]*Service),
		newStore: newStore,
		auth:     auth,
	}
}

// GetOrCreate returns the session's service, building it on first use.
// cfg only matters on first use; an existing session keeps the config
// persisted in its store.
func (m *Manager) GetOrCreate(id string, cfg economy.Config) (*Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc, ok := m.services[id]; ok {
		return svc, nil
	}
	svc, err := New(id, m.newStore(id), m.auth, cfg, time.Now().UnixNano())
	if err != nil {
		return nil, err
	}
	m.services[id] = svc
	return svc, nil
}

func (m *Manager) Get(id string) (*Service, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.services[id]
	return svc, ok
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.services, id)
}
