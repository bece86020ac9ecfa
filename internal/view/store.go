package view

import "github.com/logmux/logmux/pkg/logline"

// Store is a bounded ring buffer of log records. Records are addressed
// by position: index 0 is always the oldest surviving record, so every
// surviving index shifts down by one when the head is evicted.
type Store struct {
	buf   []logline.Record
	head  int
	count int
}

// NewStore returns a store holding at most capacity records. Capacities
// below 1 are raised to 1.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{buf: make([]logline.Record, capacity)}
}

// Len reports how many records the store currently holds.
func (s *Store) Len() int { return s.count }

// Cap reports the fixed capacity of the store.
func (s *Store) Cap() int { return len(s.buf) }

// Push appends a record, evicting the oldest one when the store is
// full. It reports whether an eviction happened.
func (s *Store) Push(rec logline.Record) (evicted bool) {
	if s.count == len(s.buf) {
		s.buf[s.head] = rec
		s.head = (s.head + 1) % len(s.buf)
		return true
	}
	s.buf[(s.head+s.count)%len(s.buf)] = rec
	s.count++
	return false
}

// Get returns the record at position i, where 0 is the oldest record.
func (s *Store) Get(i int) (logline.Record, bool) {
	if i < 0 || i >= s.count {
		return logline.Record{}, false
	}
	return s.buf[(s.head+i)%len(s.buf)], true
}

// Each calls fn for every record in order, oldest first, stopping early
// if fn returns false.
func (s *Store) Each(fn func(i int, rec logline.Record) bool) {
	for i := 0; i < s.count; i++ {
		if !fn(i, s.buf[(s.head+i)%len(s.buf)]) {
			return
		}
	}
}
