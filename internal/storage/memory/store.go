// Package memory provides an in-memory KVStore. It is the deterministic
// backend used by tests and single-process runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

type record struct {
	value []byte
	// retainUntil is the clock value after which the record lapses.
	// Zero means no retention window was ever requested; such records
	// never lapse.
	retainUntil int64
}

// Store is a mutex-guarded map implementation of interfaces.KVStore.
// A batch is applied under one lock hold, so it is all-or-nothing with
// respect to concurrent readers.
type Store struct {
	mu      sync.Mutex
	records map[string]record
	now     func() int64
}

// NewStore creates an empty store whose retention clock runs in wall-clock
// seconds.
func NewStore() *Store {
	return &Store{
		records: make(map[string]record),
		now:     func() int64 { return time.Now().Unix() },
	}
}

// SetClock replaces the retention clock. Intended for tests that need to
// move time forward deterministically.
func (s *Store) SetClock(now func() int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Get(ctx context.Context, key models.StorageKey) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded := key.Encode()
	rec, ok := s.records[encoded]
	if !ok {
		return nil, false, nil
	}
	if rec.retainUntil > 0 && s.now() > rec.retainUntil {
		delete(s.records, encoded)
		return nil, false, nil
	}
	value := make([]byte, len(rec.value))
	copy(value, rec.value)
	return value, true, nil
}

func (s *Store) Apply(ctx context.Context, batch []models.WriteOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range batch {
		encoded := op.Key.Encode()
		switch op.Kind {
		case models.OpPut:
			value := make([]byte, len(op.Value))
			copy(value, op.Value)
			rec := s.records[encoded]
			rec.value = value
			s.records[encoded] = rec
		case models.OpDelete:
			delete(s.records, encoded)
		case models.OpExtendRetention:
			rec, ok := s.records[encoded]
			if !ok {
				continue
			}
			now := s.now()
			if rec.retainUntil-now < op.MinWindow {
				rec.retainUntil = now + op.MaxWindow
				s.records[encoded] = rec
			}
		}
	}
	return nil
}

// Len reports the number of live records. Used by tests to observe pruning.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var _ interfaces.KVStore = (*Store)(nil)
