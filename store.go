package main

import "sync"

// Store holds the full loaded dataset and the current filtered view. A
// record's identity is its load-order index; every wholesale replace hands
// out fresh indexes, so ids from a previous load no longer resolve.
// Requests run concurrently, so all access goes through an RWMutex.
type Store struct {
	mu       sync.RWMutex
	records  []Record
	filtered []int
	loading  bool
}

func NewStore() *Store {
	return &Store{}
}

// BeginLoad marks a load in flight. It reports false when another load is
// already running; overlapping loads are rejected, not queued.
func (s *Store) BeginLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

func (s *Store) EndLoad() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Replace swaps in a new dataset wholesale and resets the filtered view to
// the full dataset. Records are never merged across loads.
func (s *Store) Replace(records []Record) {
	filtered := make([]int, len(records))
	for i := range records {
		filtered[i] = i
	}
	s.mu.Lock()
	s.records = records
	s.filtered = filtered
	s.mu.Unlock()
}

// Records returns the full dataset. Callers must treat it as read-only.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Record looks a record up by its load-order id.
func (s *Store) Record(id int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || id >= len(s.records) {
		return Record{}, false
	}
	return s.records[id], true
}

// SetFiltered replaces the stored filtered view with ids into the full
// dataset, in dataset order.
func (s *Store) SetFiltered(ids []int) {
	s.mu.Lock()
	s.filtered = ids
	s.mu.Unlock()
}

// Filtered returns the ids of the current filtered view.
func (s *Store) Filtered() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered
}
