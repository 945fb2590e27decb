package support

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/account"
	"github.com/zhouzirui/agent-swarm/backend/internal/random"
)

var (
	statuses = []account.Status{
		account.StatusActive,
		account.StatusRestricted,
		account.StatusPendingVerification,
		account.StatusLocked,
	}
	statusWeights = []float64{0.7, 0.1, 0.1, 0.1}

	debitTypes  = []string{"purchase", "transfer_out", "withdrawal", "payment"}
	creditTypes = []string{"deposit", "transfer_in", "refund", "payment_received"}
	txnStatuses = []string{"completed", "pending", "failed"}
)

// Generator builds synthetic account records.
type Generator struct {
	rng *random.Source
	now func() time.Time
}

// NewGenerator returns a Generator drawing from rng and timestamping with now.
func NewGenerator(rng *random.Source, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Generate creates a new account for userID.
func (g *Generator) Generate(userID string) account.Record {
	now := g.now()
	status := statuses[g.rng.Weighted(statusWeights)]
	balance := round2(g.rng.Uniform(100, 5000))

	count := g.rng.IntRange(5, 15)
	txns := make([]account.Transaction, 0, count)
	for i := 0; i < count; i++ {
		txns = append(txns, g.transaction(now))
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})

	return account.Record{
		UserID:        userID,
		AccountNumber: fmt.Sprintf("ACCT-%d", g.rng.IntRange(10000, 99999)),
		Status:        status,
		Balance:       balance,
		Currency:      account.Currency,
		LastLogin:     now.AddDate(0, 0, -g.rng.IntRange(0, 7)),
		Transactions:  txns,
	}
}

func (g *Generator) transaction(now time.Time) account.Transaction {
	date := now.AddDate(0, 0, -g.rng.IntRange(0, 30))
	amount := round2(g.rng.Uniform(-500, 500))

	var kind string
	if amount < 0 {
		kind = g.rng.Pick(debitTypes)
	} else {
		kind = g.rng.Pick(creditTypes)
	}

	return account.Transaction{
		ID:          fmt.Sprintf("txn_%d", g.rng.IntRange(10000, 99999)),
		Date:        date,
		Amount:      amount,
		Type:        kind,
		Description: fmt.Sprintf("%s - %.2f %s", titleCase(kind), math.Abs(amount), account.Currency),
		Status:      g.rng.Pick(txnStatuses),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// titleCase turns "transfer_out" into "Transfer Out".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
