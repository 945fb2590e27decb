package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/agent-swarm/backend/internal/analysis/intent"
	"github.com/zhouzirui/agent-swarm/backend/internal/metrics"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
)

// Name is the agent name reported in workflow traces.
const Name = "Router"

// UnavailableResponse is returned when no agent handles the resolved category.
const UnavailableResponse = "I'm unable to process this request as the required agent is not available."

// Service classifies messages and dispatches them to the registered agents.
type Service struct {
	classify func(string) intent.Decision

	mu     sync.RWMutex
	agents map[agent.Category]agent.Agent
}

// NewService returns a router with no agents registered.
func NewService() *Service {
	return &Service{
		classify: intent.Classify,
		agents:   make(map[agent.Category]agent.Agent),
	}
}

// Register binds an agent to a category, replacing any previous binding.
func (s *Service) Register(category agent.Category, a agent.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[category] = a
}

// Agent returns the agent bound to category.
func (s *Service) Agent(category agent.Category) (agent.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[category]
	return a, ok
}

// Name implements agent.Agent.
func (s *Service) Name() string {
	return Name
}

// Process implements agent.Agent. The personality rewrite, when any, is the
// returned response.
func (s *Service) Process(ctx context.Context, req agent.Request) (agent.Result, error) {
	outcome, err := s.Route(ctx, req)
	if err != nil {
		return agent.Result{}, err
	}
	return agent.Result{
		Response:  outcome.Response,
		Category:  outcome.Category,
		ToolCalls: outcome.Workflow[0].ToolCalls,
	}, nil
}

// Route classifies the message, runs the matching agent and, when a
// personality agent is registered, rewrites the answer. Agent errors are
// returned wrapped; a missing agent is answered with UnavailableResponse.
func (s *Service) Route(ctx context.Context, req agent.Request) (agent.Outcome, error) {
	start := time.Now()
	decision := s.classify(req.Message)

	var calls agent.ToolCalls
	calls.Record("message_analysis", map[string]any{
		"message":  req.Message,
		"category": string(decision.Category),
	})
	outcome := agent.Outcome{
		Category: decision.Category,
		Workflow: []agent.WorkflowStep{{AgentName: Name, ToolCalls: calls}},
	}
	defer func() {
		metrics.ObserveRoute(string(outcome.Category), time.Since(start))
	}()

	handler, ok := s.Agent(decision.Category)
	if !ok {
		log.Warn().Str("component", "router").Str("category", string(decision.Category)).Msg("no agent registered for category")
		outcome.Response = UnavailableResponse
		return outcome, nil
	}

	result, err := handler.Process(ctx, req)
	if err != nil {
		return agent.Outcome{}, fmt.Errorf("%s agent: %w", handler.Name(), err)
	}
	outcome.Response = result.Response
	outcome.Workflow = append(outcome.Workflow, agent.WorkflowStep{AgentName: handler.Name(), ToolCalls: result.ToolCalls})

	if rewriter, ok := s.Agent(agent.CategoryPersonality); ok && decision.Category != agent.CategoryPersonality {
		rewritten, err := rewriter.Process(ctx, req.WithContext(agent.ContextSourceResponse, result.Response))
		if err != nil {
			return agent.Outcome{}, fmt.Errorf("%s agent: %w", rewriter.Name(), err)
		}
		outcome.SourceResponse = result.Response
		outcome.HasSource = true
		outcome.Response = rewritten.Response
		outcome.Workflow = append(outcome.Workflow, agent.WorkflowStep{AgentName: rewriter.Name(), ToolCalls: rewritten.ToolCalls})
	}

	log.Debug().
		Str("component", "router").
		Str("user_id", req.UserID).
		Str("category", string(decision.Category)).
		Str("group", string(decision.Group)).
		Int("steps", len(outcome.Workflow)).
		Msg("message routed")
	return outcome, nil
}
