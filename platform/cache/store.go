package cache

import (
	"fmt"

	"github.com/gomodule/redigo/redis"
)

// SessionStore keeps one session's shared state in Redis, with the same
// key layout the rest of the backend has always used:
//
//	<sid>.order   list, roster in join order
//	<sid>.<pid>   hash, per-participant fields
//	<sid>.shared  hash, pool / pool version / economy config
//
// It implements ledger.Store.
type SessionStore struct {
	sessionID string
	pool      *redis.Pool
}

func NewSessionStore(sessionID string, pool *redis.Pool) *SessionStore {
	return &SessionStore{sessionID: sessionID, pool: pool}
}

func (s *SessionStore) rosterKey() string {
	return fmt.Sprintf("%s.order", s.sessionID)
}

func (s *SessionStore) participantKey(id string) string {
	return fmt.Sprintf("%s.%s", s.sessionID, id)
}

func (s *SessionStore) sharedKey() string {
	return fmt.Sprintf("%s.shared", s.sessionID)
}

func (s *SessionStore) Roster() ([]string, error) {
	conn := s.pool.Get()
	defer conn.Close()
	return LRANGE(s.rosterKey(), &conn)
}

func (s *SessionStore) AddToRoster(id string) error {
	conn := s.pool.Get()
	defer conn.Close()

	existing, err := LRANGE(s.rosterKey(), &conn)
	if err != nil {
		return err
	}
	for _, member := range existing {
		if member == id {
			return nil
		}
	}
	return RPUSH(s.rosterKey(), id, &conn)
}

func (s *SessionStore) RemoveFromRoster(id string) error {
	conn := s.pool.Get()
	defer conn.Close()
	return LREM(s.rosterKey(), id, &conn)
}

func (s *SessionStore) GetParticipant(id, field string) (string, error) {
	conn := s.pool.Get()
	defer conn.Close()
	return HGET(s.participantKey(id), field, &conn)
}

func (s *SessionStore) SetParticipant(id, field, value string) error {
	conn := s.pool.Get()
	defer conn.Close()
	return HSET(s.participantKey(id), field, value, &conn)
}

func (s *SessionStore) ClearParticipant(id string) error {
	conn := s.pool.Get()
	defer conn.Close()
	return Del(s.participantKey(id), &conn)
}

func (s *SessionStore) GetShared(field string) (string, error) {
	conn := s.pool.Get()
	defer conn.Close()
	return HGET(s.sharedKey(), field, &conn)
}

func (s *SessionStore) SetShared(field, value string) error {
	conn := s.pool.Get()
	defer conn.Close()
	return HSET(s.sharedKey(), field, value, &conn)
}
