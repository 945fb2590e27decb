package personality

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/personality"
	personalityService "github.com/zhouzirui/agent-swarm/backend/internal/service/personality"
	"github.com/zhouzirui/agent-swarm/backend/pkg/utils"
)

// Handler exposes the default conversational style.
type Handler struct {
	rewriter *personalityService.Service
}

// New creates the handler. A nil rewriter means the personality agent is disabled.
func New(rewriter *personalityService.Service) *Handler {
	return &Handler{rewriter: rewriter}
}

// RegisterRoutes mounts the personality routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personality", h.handleGet)
	r.Put("/personality", h.handlePut)
}

// State is the body of every personality response.
type State struct {
	PersonalityType string   `json:"personality_type"`
	AvailableTypes  []string `json:"available_types"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if h.rewriter == nil {
		utils.RespondError(w, http.StatusNotFound, "personality agent is disabled")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.state())
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	if h.rewriter == nil {
		utils.RespondError(w, http.StatusNotFound, "personality agent is disabled")
		return
	}

	var payload struct {
		PersonalityType string `json:"personality_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.rewriter.SetStyle(payload.PersonalityType) {
		utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":           "Unknown personality type: " + payload.PersonalityType,
			"available_types": personality.Names(),
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.state())
}

func (h *Handler) state() State {
	return State{
		PersonalityType: string(h.rewriter.Style()),
		AvailableTypes:  personality.Names(),
	}
}
