package message

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	chatService "github.com/zhouzirui/agent-swarm/backend/internal/service/chat"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/swarm"
	"github.com/zhouzirui/agent-swarm/backend/pkg/utils"
)

// Handler serves the message and transcript endpoints.
type Handler struct {
	swarm *swarm.Swarm
}

// New creates the message handler.
func New(s *swarm.Swarm) *Handler {
	return &Handler{swarm: s}
}

// RegisterRoutes mounts the message routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/message", h.handleMessage)
	r.Get("/users/{userID}/messages", h.handleTranscript)
}

// Request is the body of POST /message.
type Request struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	Personality string `json:"personality,omitempty"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.swarm.Handle(r.Context(), payload.Message, payload.UserID, payload.Personality)
	switch {
	case errors.Is(err, swarm.ErrEmptyMessage), errors.Is(err, swarm.ErrEmptyUserID):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("component", "message").Str("user_id", payload.UserID).Msg("failed to process message")
		utils.RespondError(w, http.StatusInternalServerError, "Error processing message: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, outcome.Reply())
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	messages, err := h.swarm.Transcripts.LoadTranscript(r.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatService.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}
