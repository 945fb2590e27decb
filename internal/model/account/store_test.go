package account

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrCreateGeneratesOnce(t *testing.T) {
	store := NewMemoryStore()
	var calls int
	gen := func(userID string) Record {
		calls++
		return Record{UserID: userID, AccountNumber: "ACCT-12345", Status: StatusActive}
	}

	first := store.GetOrCreate("u1", gen)
	second := store.GetOrCreate("u1", gen)

	if calls != 1 {
		t.Fatalf("expected one generation, got %d", calls)
	}
	if first.AccountNumber != second.AccountNumber || first.Status != second.Status {
		t.Fatalf("records differ: %+v vs %+v", first, second)
	}
}

func TestGetOrCreateConcurrentFirstLookup(t *testing.T) {
	store := NewMemoryStore()
	var calls atomic.Int32
	gen := func(userID string) Record {
		calls.Add(1)
		return Record{UserID: userID}
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.GetOrCreate("shared", gen)
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one generation under contention, got %d", calls.Load())
	}
}

func TestRecentTransactionsFiltersByDate(t *testing.T) {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.GetOrCreate("u1", func(userID string) Record {
		return Record{
			UserID: userID,
			Transactions: []Transaction{
				{ID: "txn_1", Date: now.AddDate(0, 0, -1)},
				{ID: "txn_2", Date: now.AddDate(0, 0, -6)},
				{ID: "txn_3", Date: now.AddDate(0, 0, -20)},
			},
		}
	})

	recent, ok := store.RecentTransactions("u1", 7, now)
	if !ok {
		t.Fatal("expected account to exist")
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent transactions, got %d", len(recent))
	}

	if _, ok := store.RecentTransactions("missing", 7, now); ok {
		t.Fatal("expected missing account to report false")
	}
}

func TestGetOrCreateReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	gen := func(userID string) Record {
		return Record{UserID: userID, Transactions: []Transaction{{ID: "txn_1"}}}
	}
	rec := store.GetOrCreate("u1", gen)
	rec.Transactions[0].ID = "mutated"

	again := store.GetOrCreate("u1", gen)
	if again.Transactions[0].ID != "txn_1" {
		t.Fatalf("store was mutated through returned record: %s", again.Transactions[0].ID)
	}
}
