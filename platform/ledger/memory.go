package ledger

import "sync"

// MemoryStore is a process-local Store. It backs the server when no Redis
// is configured and every package test that needs session state.
type MemoryStore struct {
	mu           sync.Mutex
	roster       []string
	participants map[string]map[string]string
	shared       map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		participants: make(map[string]map[string]string),
		shared:       make(map[string]string),
	}
}

func (m *MemoryStore) Roster() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.roster))
	copy(out, m.roster)
	return out, nil
}

func (m *MemoryStore) AddToRoster(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.roster {
		if existing == id {
			return nil
		}
	}
	m.roster = append(m.roster, id)
	return nil
}

func (m *MemoryStore) RemoveFromRoster(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.roster {
		if existing == id {
			m.roster = append(m.roster[:i], m.roster[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) GetParticipant(id, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.participants[id][field], nil
}

func (m *MemoryStore) SetParticipant(id, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields, ok := m.participants[id]
	if !ok {
		fields = make(map[string]string)
		m.participants[id] = fields
	}
	fields[field] = value
	return nil
}

func (m *MemoryStore) ClearParticipant(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.participants, id)
	return nil
}

func (m *MemoryStore) GetShared(field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shared[field], nil
}

func (m *MemoryStore) SetShared(field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shared[field] = value
	return nil
}
