package knowledge

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/agent-swarm/backend/internal/metrics"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/ai"
)

// Name is the agent name reported in workflow traces.
const Name = "Knowledge"

// Canned responses.
const (
	GeneralDisclaimer = "I found some information that might help answer your question. " +
		"However, as I'm primarily designed to provide information about InfinitePay's " +
		"products and services, I may not have the most up-to-date or comprehensive " +
		"information on general topics. " +
		"For the most accurate and current information, I recommend consulting a dedicated " +
		"search engine or relevant authoritative sources."

	NoAnswerReferral = "I don't have specific information about that in my knowledge base. " +
		"For the most accurate and up-to-date information about InfinitePay's " +
		"products and services, I recommend visiting their official website at " +
		"https://www.infinitepay.io or contacting their customer support directly."

	TroubleMessage = "I'm having trouble retrieving the information you requested. " +
		"Please try again later or contact InfinitePay's customer support " +
		"for assistance with your query."
)

var (
	domainPatterns = compile(
		`infinitepay`,
		`infinite pay`,
		`maquininha`,
		`card machine`,
		`card reader`,
		`tap to pay`,
		`pix`,
		`boleto`,
		`conta digital`,
		`digital account`,
		`emprestimo`,
		`loan`,
		`cartao`,
		`card`,
	)

	generalPatterns = compile(
		`(news|information) (about|on|regarding)`,
		`(latest|recent) (news|information|updates)`,
		`weather`,
		`sports`,
		`politics`,
		`entertainment`,
		`technology`,
		`science`,
		`health`,
		`education`,
		`business`,
		`economy`,
		`stock market`,
		`cryptocurrency`,
	)

	hedgingPhrases = []string{"don't know", "don't have"}
)

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// SetupFunc builds the retrieval chain on first use.
type SetupFunc func(ctx context.Context) (ai.Chain, ai.Report, error)

// Service answers product questions from the indexed knowledge pages.
type Service struct {
	setup SetupFunc

	mu    sync.Mutex
	chain ai.Chain
}

// NewService returns a responder that runs setup the first time a domain
// question arrives. A failed setup is retried on the next question.
func NewService(setup SetupFunc) *Service {
	return &Service{setup: setup}
}

// Name implements agent.Agent.
func (s *Service) Name() string {
	return Name
}

// Process implements agent.Agent. Retrieval failures are reported in the
// trace and replaced by a canned reply, never returned.
func (s *Service) Process(ctx context.Context, req agent.Request) (agent.Result, error) {
	var calls agent.ToolCalls
	result := func(response, outcome string) (agent.Result, error) {
		metrics.KnowledgeOutcome(outcome)
		return agent.Result{Response: response, Category: agent.CategoryKnowledge, ToolCalls: calls}, nil
	}

	if IsGeneral(req.Message) {
		calls.Record("web_search", map[string]any{"query": req.Message})
		return result(GeneralDisclaimer, metrics.OutcomeGeneral)
	}

	chain, err := s.ensureChain(ctx, &calls)
	calls.Record("rag_query", map[string]any{"query": req.Message})
	if err != nil {
		calls.Record("rag_error", map[string]any{"error": err.Error()})
		return result(TroubleMessage, metrics.OutcomeError)
	}

	answer, err := chain.Query(ctx, req.Message)
	if err != nil {
		log.Error().Err(err).Str("component", "knowledge").Str("user_id", req.UserID).Msg("knowledge query failed")
		calls.Record("rag_error", map[string]any{"error": err.Error()})
		return result(TroubleMessage, metrics.OutcomeError)
	}

	if isHedging(answer) {
		return result(NoAnswerReferral, metrics.OutcomeNoAnswer)
	}
	return result(answer, metrics.OutcomeAnswered)
}

// Ready reports whether the retrieval chain has been built.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain != nil
}

func (s *Service) ensureChain(ctx context.Context, calls *agent.ToolCalls) (ai.Chain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chain != nil {
		return s.chain, nil
	}
	if s.setup == nil {
		return nil, ai.ErrChainUnavailable
	}

	calls.Record("initialize_rag", map[string]any{"status": "starting"})
	chain, report, err := s.setup(ctx)
	for _, page := range report.Pages {
		payload := map[string]any{"url": page.URL, "status": page.Status()}
		if page.Err != nil {
			payload["error"] = page.Err.Error()
		}
		calls.Record("web_scraping", payload)
	}

	if err != nil {
		log.Error().Err(err).Str("component", "knowledge").Msg("knowledge setup failed")
		calls.Record("initialize_rag", map[string]any{"status": "failed", "error": err.Error()})
		return nil, err
	}

	calls.Record("initialize_rag", map[string]any{"status": "completed", "chunks": report.Chunks})
	s.chain = chain
	return chain, nil
}

// IsGeneral reports whether text asks about a general topic rather than
// InfinitePay. Domain keywords win over general phrases, and text matching
// neither list is treated as a domain question.
func IsGeneral(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range domainPatterns {
		if re.MatchString(lower) {
			return false
		}
	}
	for _, re := range generalPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func isHedging(answer string) bool {
	if strings.TrimSpace(answer) == "" {
		return true
	}
	lower := strings.ReplaceAll(strings.ToLower(answer), "’", "'")
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
