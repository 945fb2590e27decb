package stream

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/swarm"
	"github.com/zhouzirui/agent-swarm/backend/pkg/utils"
)

// SSE event names.
const (
	EventStart   = "start"
	EventStep    = "step"
	EventMessage = "message"
	EventEnd     = "end"
	EventError   = "error"
)

// Handler streams a routed answer over Server-Sent Events, one event per
// workflow step.
type Handler struct {
	swarm *swarm.Swarm
}

// New creates the SSE handler.
func New(s *swarm.Swarm) *Handler {
	return &Handler{swarm: s}
}

// RegisterRoutes mounts GET /stream.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
}

// StepEvent is the payload of a step event.
type StepEvent struct {
	Index int `json:"index"`
	agent.WorkflowStep
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	userID := r.URL.Query().Get("user_id")
	if strings.TrimSpace(message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	if strings.TrimSpace(userID) == "" {
		utils.RespondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	logger := log.With().Str("component", "stream").Str("user_id", userID).Logger()

	if err := utils.SendSSEEvent(w, flusher, EventStart, map[string]string{"user_id": userID, "message": message}); err != nil {
		logger.Debug().Err(err).Msg("client went away")
		return
	}

	outcome, err := h.swarm.Handle(r.Context(), message, userID, r.URL.Query().Get("personality"))
	if err != nil {
		logger.Error().Err(err).Msg("failed to process streamed message")
		_ = utils.SendSSEEvent(w, flusher, EventError, map[string]string{"error": err.Error()})
		return
	}

	for i, step := range outcome.Workflow {
		if err := utils.SendSSEEvent(w, flusher, EventStep, StepEvent{Index: i, WorkflowStep: step}); err != nil {
			logger.Debug().Err(err).Msg("client went away")
			return
		}
	}

	if err := utils.SendSSEEvent(w, flusher, EventMessage, outcome.Reply()); err != nil {
		logger.Debug().Err(err).Msg("client went away")
		return
	}
	_ = utils.SendSSEEvent(w, flusher, EventEnd, map[string]bool{"finished": true})
	logger.Debug().Int("steps", len(outcome.Workflow)).Msg("stream completed")
}
