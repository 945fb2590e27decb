package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/account"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/issue"
	"github.com/zhouzirui/agent-swarm/backend/internal/random"
)

// Name is the agent name reported in workflow traces.
const Name = "Customer Support"

const recentWindowDays = 7

// Service answers account and troubleshooting questions.
type Service struct {
	accounts  account.Store
	generator *Generator
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the clock used for generation and recency filters.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the support responder to an account store.
func NewService(accounts account.Store, rng *random.Source, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.generator = NewGenerator(rng, s.now)
	return s
}

// Name implements agent.Agent.
func (s *Service) Name() string {
	return Name
}

// Process implements agent.Agent.
func (s *Service) Process(_ context.Context, req agent.Request) (agent.Result, error) {
	var calls agent.ToolCalls

	profile := IdentifyIssue(req.Message)
	calls.Record("troubleshooting", map[string]any{
		"issue_type": string(profile.Kind),
		"title":      profile.Title,
		"solutions":  profile.Solutions,
		"escalation": profile.Escalation,
	})

	acct := s.Account(req.UserID)
	calls.Record("account_status", map[string]any{
		"user_id": req.UserID,
		"status":  string(acct.Status),
	})

	if profile.Kind.NeedsTransactions() {
		recent, _ := s.accounts.RecentTransactions(req.UserID, recentWindowDays, s.now())
		calls.Record("recent_transactions", map[string]any{
			"user_id": req.UserID,
			"count":   len(recent),
		})
	}

	log.Debug().
		Str("component", "support").
		Str("user_id", req.UserID).
		Str("issue", string(profile.Kind)).
		Str("status", string(acct.Status)).
		Msg("support reply composed")

	return agent.Result{
		Response:  ComposeReply(profile, acct),
		Category:  agent.CategorySupport,
		ToolCalls: calls,
	}, nil
}

// Account returns the synthetic account for userID, generating it on first use.
func (s *Service) Account(userID string) account.Record {
	return s.accounts.GetOrCreate(userID, s.generator.Generate)
}

// IdentifyIssue returns the first profile whose symptom occurs in message.
func IdentifyIssue(message string) issue.Profile {
	lower := strings.ToLower(message)
	for _, kind := range issue.Ordered() {
		profile := kind.Profile()
		for _, symptom := range profile.Symptoms {
			if strings.Contains(lower, symptom) {
				return profile
			}
		}
	}
	return issue.General.Profile()
}

// ComposeReply renders the troubleshooting reply for a profile and account.
func ComposeReply(profile issue.Profile, acct account.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "I understand you're having an issue with %s. ", strings.ToLower(profile.Title))
	if acct.Status != account.StatusActive {
		fmt.Fprintf(&b, "I noticed that your account status is currently '%s', which might be related to your issue. ", acct.Status)
	}

	b.WriteString("Here are some steps that might help:\n\n")
	for i, step := range profile.Solutions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	switch {
	case profile.Kind == issue.Login && acct.Status == account.StatusLocked:
		b.WriteString("\nYour account appears to be locked. This is often due to multiple failed login attempts. ")
		b.WriteString("You'll need to contact our support team to unlock your account.\n")
	case profile.Kind == issue.Transfer && acct.Balance < 10:
		fmt.Fprintf(&b, "\nI noticed your account balance is low (R$%.2f), which might be preventing transfers.\n", acct.Balance)
	case profile.Kind == issue.Transfer && acct.Status == account.StatusRestricted:
		b.WriteString("\nYour account currently has restrictions that may be limiting transfer capabilities.\n")
	}

	b.WriteString("\n")
	b.WriteString(profile.Escalation)
	return b.String()
}
