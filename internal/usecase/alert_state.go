package usecase

import (
	"sort"
	"sync"
	"time"
)

// AlertStateStore tracks when each alert key last fired and, for profit keys,
// the highest level recorded. Entries are never removed.
type AlertStateStore struct {
	mu            sync.RWMutex
	lastTriggered map[AlertKey]time.Time
	lastLevel     map[AlertKey]Level
}

func NewAlertStateStore() *AlertStateStore {
	return &AlertStateStore{
		lastTriggered: make(map[AlertKey]time.Time),
		lastLevel:     make(map[AlertKey]Level),
	}
}

func (s *AlertStateStore) LastTriggered(key AlertKey) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastTriggered[key]
	return t, ok
}

// CooldownElapsed reports whether key may fire at now. A key that never fired
// is always allowed.
func (s *AlertStateStore) CooldownElapsed(key AlertKey, now time.Time, cooldown time.Duration) bool {
	last, ok := s.LastTriggered(key)
	if !ok {
		return true
	}
	return now.Sub(last) >= cooldown
}

func (s *AlertStateStore) MarkTriggered(key AlertKey, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTriggered[key] = at
}

func (s *AlertStateStore) LastLevel(key AlertKey) Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLevel[key]
}

func (s *AlertStateStore) SetLevel(key AlertKey, level Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLevel[key] = level
}

// StateEntry is a read-only view of one key.
type StateEntry struct {
	Key           AlertKey   `json:"key"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
	LastLevel     *Level     `json:"last_level,omitempty"`
}

// Snapshot returns every known key sorted by name.
func (s *AlertStateStore) Snapshot() []StateEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make(map[AlertKey]*StateEntry, len(s.lastTriggered))
	get := func(k AlertKey) *StateEntry {
		e, ok := entries[k]
		if !ok {
			e = &StateEntry{Key: k}
			entries[k] = e
		}
		return e
	}
	for k, t := range s.lastTriggered {
		t := t
		get(k).LastTriggered = &t
	}
	for k, l := range s.lastLevel {
		l := l
		get(k).LastLevel = &l
	}

	out := make([]StateEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
