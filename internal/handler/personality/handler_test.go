package personality

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/personality"
	"github.com/zhouzirui/agent-swarm/backend/internal/random"
	personalityService "github.com/zhouzirui/agent-swarm/backend/internal/service/personality"
)

func setupRouter(rewriter *personalityService.Service) *chi.Mux {
	r := chi.NewRouter()
	New(rewriter).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/personality", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeState(t *testing.T, resp *httptest.ResponseRecorder) State {
	t.Helper()
	var state State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return state
}

func TestGetPersonality(t *testing.T) {
	r := setupRouter(personalityService.NewService(personality.Friendly, random.New(1)))

	resp := do(r, http.MethodGet, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	state := decodeState(t, resp)
	if state.PersonalityType != "friendly" || len(state.AvailableTypes) != 3 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestPutPersonality(t *testing.T) {
	rewriter := personalityService.NewService(personality.Friendly, random.New(1))
	r := setupRouter(rewriter)

	resp := do(r, http.MethodPut, `{"personality_type":"casual"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if state := decodeState(t, resp); state.PersonalityType != "casual" {
		t.Fatalf("unexpected state %+v", state)
	}
	if rewriter.Style() != personality.Casual {
		t.Fatalf("style not applied")
	}
}

func TestPutUnknownPersonality(t *testing.T) {
	rewriter := personalityService.NewService(personality.Professional, random.New(1))
	r := setupRouter(rewriter)

	resp := do(r, http.MethodPut, `{"personality_type":"sarcastic"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if rewriter.Style() != personality.Professional {
		t.Fatalf("style should be unchanged")
	}

	resp = do(r, http.MethodPut, `not json`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPersonalityDisabled(t *testing.T) {
	r := setupRouter(nil)

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		if resp := do(r, method, `{"personality_type":"casual"}`); resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", method, resp.Code)
		}
	}
}
