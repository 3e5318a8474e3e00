package tracker

import (
	"sort"

	"github.com/quakewatch/quakewatch/internal/domain"
)

// cachedKinds are the kinds held by the record store, in sweep order
var cachedKinds = []domain.Kind{
	domain.KindOrigin,
	domain.KindMagnitude,
	domain.KindFocalMechanism,
}

// RecordReader is the read-only view of the record store handed to hooks
type RecordReader interface {
	Get(kind domain.Kind, id string) (domain.Record, bool)
	Count(kind domain.Kind) int
}

// RecordStore keeps the last known copy of each origin, magnitude and focal mechanism.
// There is exactly one slot per identifier; updates are written into that slot so every
// holder of the pointer sees them. It is not safe for concurrent use.
type RecordStore struct {
	records map[domain.Kind]map[string]domain.Record
}

// NewRecordStore creates an empty record store
func NewRecordStore() *RecordStore {
	s := &RecordStore{records: make(map[domain.Kind]map[string]domain.Record, len(cachedKinds))}
	for _, kind := range cachedKinds {
		s.records[kind] = make(map[string]domain.Record)
	}
	return s
}

// Get returns the record with the given identifier
func (s *RecordStore) Get(kind domain.Kind, id string) (domain.Record, bool) {
	r, ok := s.records[kind][id]
	return r, ok
}

// Put inserts the record or overwrites the existing slot in place, and returns the slot.
// Events are not cached here and are returned unchanged.
func (s *RecordStore) Put(record domain.Record) domain.Record {
	bucket, ok := s.records[record.Kind()]
	if !ok {
		return record
	}

	existing, ok := bucket[record.PublicID()]
	if !ok {
		bucket[record.PublicID()] = record
		return record
	}

	switch slot := existing.(type) {
	case *domain.Origin:
		slot.Assign(record.(*domain.Origin))
	case *domain.Magnitude:
		slot.Assign(record.(*domain.Magnitude))
	case *domain.FocalMechanism:
		slot.Assign(record.(*domain.FocalMechanism))
	}
	return existing
}

// Remove deletes the record; removing an absent record is a no-op
func (s *RecordStore) Remove(kind domain.Kind, id string) {
	delete(s.records[kind], id)
}

// Count returns the number of records of the kind
func (s *RecordStore) Count(kind domain.Kind) int {
	return len(s.records[kind])
}

// IDs returns the sorted identifiers of all records of the kind
func (s *RecordStore) IDs(kind domain.Kind) []string {
	ids := make([]string, 0, len(s.records[kind]))
	for id := range s.records[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Range calls fn for every record of the kind until fn returns false
func (s *RecordStore) Range(kind domain.Kind, fn func(domain.Record) bool) {
	for _, r := range s.records[kind] {
		if !fn(r) {
			return
		}
	}
}
