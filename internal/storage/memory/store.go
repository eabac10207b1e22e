package memory

import (
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/yndnr/rolodex/internal/core/domain"
)

// Store holds contact records by key.
type Store struct {
	records map[string]*domain.Record

	// Longest key ever stored, in runes. Never decremented.
	maxKeyLength int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records: make(map[string]*domain.Record),
	}
}

// Upsert merges updates into the record stored under key, creating the
// record when it does not exist yet. Values already present in a category
// are skipped; new ones are appended in order.
//
// It returns a copy of the merged record and whether it was created.
func (s *Store) Upsert(key string, updates domain.Record) (*domain.Record, bool) {
	rec, ok := s.records[key]
	if !ok {
		rec = &domain.Record{}
		s.records[key] = rec
		if n := utf8.RuneCountInString(key); n > s.maxKeyLength {
			s.maxKeyLength = n
		}
	}
	rec.Merge(&updates)
	return rec.Clone(), !ok
}

// Get returns a copy of the record stored under key.
func (s *Store) Get(key string) (*domain.Record, bool) {
	rec, ok := s.records[key]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Has reports whether a record is stored under key.
func (s *Store) Has(key string) bool {
	_, ok := s.records[key]
	return ok
}

// Delete removes the record stored under key and reports whether it
// existed. MaxKeyLength is left untouched.
func (s *Store) Delete(key string) bool {
	if _, ok := s.records[key]; !ok {
		return false
	}
	delete(s.records, key)
	return true
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Keys returns every record key in sorted order.
func (s *Store) Keys() []string {
	return slices.Sorted(maps.Keys(s.records))
}

// MaxKeyLength returns the longest key length ever stored, in runes.
func (s *Store) MaxKeyLength() int {
	return s.maxKeyLength
}

// Records returns a deep copy of every record, keyed by record key.
func (s *Store) Records() map[string]*domain.Record {
	out := make(map[string]*domain.Record, len(s.records))
	for k, rec := range s.records {
		out[k] = rec.Clone()
	}
	return out
}

// Restore replaces the store's contents. Nil records are stored as empty
// ones. maxKeyLength is raised to cover every restored key so queries for
// them are never rejected.
func (s *Store) Restore(records map[string]*domain.Record, maxKeyLength int) {
	s.records = make(map[string]*domain.Record, len(records))
	s.maxKeyLength = max(maxKeyLength, 0)
	for k, rec := range records {
		if rec == nil {
			rec = &domain.Record{}
		}
		s.records[k] = rec.Clone()
		if n := utf8.RuneCountInString(k); n > s.maxKeyLength {
			s.maxKeyLength = n
		}
	}
}
