package message

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/agent-swarm/backend/internal/config"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/chat"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/personality"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/ai"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/swarm"
)

type fixedChain string

func (c fixedChain) Query(context.Context, string) (string, error) { return string(c), nil }

func setupRouter() *chi.Mux {
	seed := int64(11)
	cfg := &config.Config{Swarm: config.SwarmConfig{
		Personality:        personality.Friendly,
		PersonalityEnabled: true,
		Seed:               &seed,
	}}
	s := swarm.New(cfg, swarm.WithKnowledgeSetup(func(context.Context) (ai.Chain, ai.Report, error) {
		return fixedChain("The Maquininha Smart has no monthly fee."), ai.Report{}, nil
	}))

	r := chi.NewRouter()
	New(s).RegisterRoutes(r)
	return r
}

func postMessage(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/message", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPostMessageSupport(t *testing.T) {
	r := setupRouter()
	payload, _ := json.Marshal(Request{Message: "I can't sign in to my account.", UserID: "u1"})

	resp := postMessage(r, string(payload))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var reply agent.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Response == "" || reply.SourceAgentResponse == nil {
		t.Fatalf("expected rewritten response with source, got %+v", reply)
	}
	if !strings.Contains(*reply.SourceAgentResponse, "login issues") {
		t.Fatalf("unexpected source response %q", *reply.SourceAgentResponse)
	}
	if len(reply.AgentWorkflow) != 3 || reply.AgentWorkflow[1].AgentName != "Customer Support" {
		t.Fatalf("unexpected workflow %+v", reply.AgentWorkflow)
	}
	if _, ok := reply.AgentWorkflow[1].ToolCalls.Get("account_status"); !ok {
		t.Fatalf("missing account_status tool call")
	}
}

func TestPostMessageKnowledge(t *testing.T) {
	r := setupRouter()
	resp := postMessage(r, `{"message":"What are the fees of the Maquininha Smart?","user_id":"u2","personality":"professional"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var reply agent.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.SourceAgentResponse == nil || *reply.SourceAgentResponse != "The Maquininha Smart has no monthly fee." {
		t.Fatalf("unexpected source %+v", reply.SourceAgentResponse)
	}
	if reply.AgentWorkflow[0].AgentName != "Router" || reply.AgentWorkflow[1].AgentName != "Knowledge" {
		t.Fatalf("unexpected workflow %+v", reply.AgentWorkflow)
	}
}

func TestPostMessageValidation(t *testing.T) {
	r := setupRouter()
	cases := map[string]string{
		"invalid json":  `{"message":`,
		"empty message": `{"message":"","user_id":"u1"}`,
		"empty user":    `{"message":"hello","user_id":"  "}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postMessage(r, body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestTranscript(t *testing.T) {
	r := setupRouter()
	postMessage(r, `{"message":"Is pix free?","user_id":"u3"}`)

	req := httptest.NewRequest(http.MethodGet, "/users/u3/messages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var messages []chat.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(messages) != 2 || messages[0].Content != "Is pix free?" || messages[1].Sender != chat.SenderAssistant {
		t.Fatalf("unexpected transcript %+v", messages)
	}
}

func TestTranscriptUnknownUser(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/users/nobody/messages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
