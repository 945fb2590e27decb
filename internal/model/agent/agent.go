package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Category selects which responder handles a message.
type Category string

const (
	CategorySupport     Category = "support"
	CategoryKnowledge   Category = "knowledge"
	CategoryPersonality Category = "personality"
	CategoryUnknown     Category = "unknown"
)

// Context keys understood by the built-in agents.
const (
	ContextSourceResponse  = "source_agent_response"
	ContextPersonalityType = "personality_type"
)

// Request is a single inbound message. Context carries per-request hints
// between agents (for example the raw response handed to the personality layer).
type Request struct {
	Message string
	UserID  string
	Context map[string]string
}

// Lookup returns a context value and whether it was set.
func (r Request) Lookup(key string) (string, bool) {
	if r.Context == nil {
		return "", false
	}
	v, ok := r.Context[key]
	return v, ok
}

// WithContext returns a copy of the request with key set to value.
func (r Request) WithContext(key, value string) Request {
	ctx := make(map[string]string, len(r.Context)+1)
	for k, v := range r.Context {
		ctx[k] = v
	}
	ctx[key] = value
	r.Context = ctx
	return r
}

// Result is what an agent produced for one request.
type Result struct {
	Response  string
	Category  Category
	ToolCalls ToolCalls
}

// Agent is implemented by the router and every specialised responder.
type Agent interface {
	Name() string
	Process(ctx context.Context, req Request) (Result, error)
}

// ToolCall is one recorded side effect of an agent run.
type ToolCall struct {
	Name    string
	Payload map[string]any
}

// ToolCalls keeps recorded calls in order. A later call with the same name
// replaces the earlier payload but keeps its position.
type ToolCalls []ToolCall

// Record adds or replaces the payload for name.
func (t *ToolCalls) Record(name string, payload map[string]any) {
	for i := range *t {
		if (*t)[i].Name == name {
			(*t)[i].Payload = payload
			return
		}
	}
	*t = append(*t, ToolCall{Name: name, Payload: payload})
}

// Get returns the payload recorded under name.
func (t ToolCalls) Get(name string) (map[string]any, bool) {
	for _, call := range t {
		if call.Name == name {
			return call.Payload, true
		}
	}
	return nil, false
}

// Names lists recorded call names in order.
func (t ToolCalls) Names() []string {
	names := make([]string, 0, len(t))
	for _, call := range t {
		names = append(names, call.Name)
	}
	return names
}

// MarshalJSON renders the calls as a JSON object preserving record order.
func (t ToolCalls) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, call := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(call.Name)
		if err != nil {
			return nil, err
		}
		payload := call.Payload
		if payload == nil {
			payload = map[string]any{}
		}
		value, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object produced by MarshalJSON, keeping key order.
func (t *ToolCalls) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tool calls: expected object, got %v", tok)
	}

	calls := ToolCalls{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tool calls: expected key, got %v", tok)
		}
		var payload map[string]any
		if err := dec.Decode(&payload); err != nil {
			return fmt.Errorf("tool calls: decode %s: %w", name, err)
		}
		calls = append(calls, ToolCall{Name: name, Payload: payload})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = calls
	return nil
}

// WorkflowStep is one entry of the trace returned with every response.
type WorkflowStep struct {
	AgentName string    `json:"agent_name"`
	ToolCalls ToolCalls `json:"tool_calls"`
}

// Outcome is the router's answer to one request.
type Outcome struct {
	Category       Category
	Response       string
	SourceResponse string
	HasSource      bool
	Workflow       []WorkflowStep
}

// Reply is the wire form of an Outcome.
type Reply struct {
	Response            string         `json:"response"`
	SourceAgentResponse *string        `json:"source_agent_response,omitempty"`
	AgentWorkflow       []WorkflowStep `json:"agent_workflow"`
}

// Reply converts the outcome for the API. The source response is only set
// when a rewrite happened.
func (o Outcome) Reply() Reply {
	reply := Reply{Response: o.Response, AgentWorkflow: o.Workflow}
	if reply.AgentWorkflow == nil {
		reply.AgentWorkflow = []WorkflowStep{}
	}
	if o.HasSource {
		source := o.SourceResponse
		reply.SourceAgentResponse = &source
	}
	return reply
}
