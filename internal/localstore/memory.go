package localstore

import (
	"context"
	"sync"
)

// Memory is a process-local Store.
type Memory struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{flags: make(map[string]bool)}
}

// Enrolled implements Store.
func (m *Memory) Enrolled(_ context.Context, courseID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[Key(courseID)], nil
}

// SetEnrolled implements Store.
func (m *Memory) SetEnrolled(_ context.Context, courseID int64, enrolled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enrolled {
		m.flags[Key(courseID)] = true
	} else {
		delete(m.flags, Key(courseID))
	}
	return nil
}
