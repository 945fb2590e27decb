package account

import (
	"sync"
	"time"
)

// Store exposes per-user account lookups to the support responder.
type Store interface {
	GetOrCreate(userID string, generate func(userID string) Record) Record
	RecentTransactions(userID string, days int, now time.Time) ([]Transaction, bool)
}

// MemoryStore keeps generated accounts for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Record)}
}

// GetOrCreate returns the stored record for userID, generating it on first use.
// generate runs under the store lock, so concurrent first lookups share one record.
func (s *MemoryStore) GetOrCreate(userID string, generate func(userID string) Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.items[userID]; ok {
		return rec.clone()
	}
	rec := generate(userID)
	s.items[userID] = rec
	return rec.clone()
}

// RecentTransactions returns transactions newer than days before now.
// The boolean is false when no account exists for the user.
func (s *MemoryStore) RecentTransactions(userID string, days int, now time.Time) ([]Transaction, bool) {
	s.mu.Lock()
	rec, ok := s.items[userID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	cutoff := now.AddDate(0, 0, -days)
	recent := make([]Transaction, 0, len(rec.Transactions))
	for _, txn := range rec.Transactions {
		if txn.Date.After(cutoff) {
			recent = append(recent, txn)
		}
	}
	return recent, true
}

// Len reports how many accounts have been generated.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (r Record) clone() Record {
	r.Transactions = append([]Transaction(nil), r.Transactions...)
	return r
}
