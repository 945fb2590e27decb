package swarm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/agent-swarm/backend/internal/config"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/account"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
	"github.com/zhouzirui/agent-swarm/backend/internal/random"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/ai"
	chatService "github.com/zhouzirui/agent-swarm/backend/internal/service/chat"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/knowledge"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/personality"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/router"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/support"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrEmptyUserID  = errors.New("user_id is required")
)

// Swarm owns the router and every agent registered on it.
type Swarm struct {
	Router      *router.Service
	Support     *support.Service
	Knowledge   *knowledge.Service
	Personality *personality.Service // nil when disabled
	Transcripts *chatService.Service
}

type options struct {
	setup      knowledge.SetupFunc
	now        func() time.Time
	httpClient *http.Client
}

// Option customises New.
type Option func(*options)

// WithKnowledgeSetup replaces the production retrieval pipeline.
func WithKnowledgeSetup(setup knowledge.SetupFunc) Option {
	return func(o *options) { o.setup = setup }
}

// WithClock overrides the clock used for synthetic accounts.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHTTPClient sets the client used to fetch knowledge pages.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// New wires the agents described by cfg. Nothing is fetched until the first
// knowledge question.
func New(cfg *config.Config, opts ...Option) *Swarm {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.setup == nil {
		o.setup = pipelineSetup(cfg, o.httpClient)
	}

	rng := random.NewFromTime()
	if cfg.Swarm.Seed != nil {
		rng = random.New(*cfg.Swarm.Seed)
	}

	s := &Swarm{
		Router:      router.NewService(),
		Support:     support.NewService(account.NewMemoryStore(), rng, support.WithClock(o.now)),
		Knowledge:   knowledge.NewService(o.setup),
		Transcripts: chatService.NewService(),
	}
	s.Router.Register(agent.CategorySupport, s.Support)
	s.Router.Register(agent.CategoryKnowledge, s.Knowledge)

	if cfg.Swarm.PersonalityEnabled {
		s.Personality = personality.NewService(cfg.Swarm.Personality, rng)
		s.Router.Register(agent.CategoryPersonality, s.Personality)
	}

	log.Info().
		Str("component", "swarm").
		Bool("personality", s.Personality != nil).
		Bool("seeded", cfg.Swarm.Seed != nil).
		Msg("agent swarm ready")
	return s
}

func pipelineSetup(cfg *config.Config, client *http.Client) knowledge.SetupFunc {
	return func(ctx context.Context) (ai.Chain, ai.Report, error) {
		pipeline, err := ai.NewPipeline(ctx, cfg, client)
		if err != nil {
			return nil, ai.Report{}, err
		}
		chain, report, err := pipeline.Build(ctx)
		if err != nil {
			return nil, report, err
		}
		return chain, report, nil
	}
}

// Handle validates and routes one message, then appends the exchange to the
// user's transcript. personalityType may be empty.
func (s *Swarm) Handle(ctx context.Context, message, userID, personalityType string) (agent.Outcome, error) {
	if strings.TrimSpace(message) == "" {
		return agent.Outcome{}, ErrEmptyMessage
	}
	if strings.TrimSpace(userID) == "" {
		return agent.Outcome{}, ErrEmptyUserID
	}

	req := agent.Request{Message: message, UserID: userID}
	if personalityType != "" {
		req = req.WithContext(agent.ContextPersonalityType, personalityType)
	}

	outcome, err := s.Router.Route(ctx, req)
	if err != nil {
		return agent.Outcome{}, err
	}

	if err := s.Transcripts.RecordExchange(ctx, userID, message, outcome.Response, string(outcome.Category)); err != nil {
		log.Warn().Err(err).Str("component", "swarm").Str("user_id", userID).Msg("failed to record transcript")
	}
	return outcome, nil
}
