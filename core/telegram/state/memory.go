package state

import "sync"

const defaultShards = 32

type shard struct {
	mu     sync.RWMutex
	states map[int64]State
}

type memoryManager struct {
	shards []*shard
}

// NewMemoryManager constructs an in-memory Manager sharded by user id.
// State lives only as long as the process.
func NewMemoryManager() Manager {
	return newMemoryManager(defaultShards)
}

func newMemoryManager(n int) *memoryManager {
	if n <= 0 {
		n = 1
	}
	m := &memoryManager{shards: make([]*shard, n)}
	for i := range m.shards {
		m.shards[i] = &shard{states: make(map[int64]State)}
	}
	return m
}

func (m *memoryManager) shardFor(userID int64) *shard {
	return m.shards[uint64(userID)%uint64(len(m.shards))]
}

// Get returns the current state of a user, or StateDefault if none exists.
func (m *memoryManager) Get(userID int64) State {
	s := m.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[userID]; ok {
		return st
	}
	return StateDefault
}

// Set stores st for the user; StateDefault removes the slot.
func (m *memoryManager) Set(userID int64, st State) {
	s := m.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(userID, st)
}

// Clear resets the user to StateDefault.
func (m *memoryManager) Clear(userID int64) {
	m.Set(userID, StateDefault)
}

// Update runs fn under the user's shard lock and stores its result.
func (m *memoryManager) Update(userID int64, fn func(State) State) State {
	s := m.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.states[userID]
	if !ok {
		current = StateDefault
	}
	next := fn(current)
	s.store(userID, next)
	return next
}

// InProgress reports whether the user has an active state other than default.
func (m *memoryManager) InProgress(userID int64) bool {
	return !m.Get(userID).IsDefault()
}

func (s *shard) store(userID int64, st State) {
	if st.IsDefault() {
		delete(s.states, userID)
		return
	}
	s.states[userID] = st
}
