package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/agent-swarm/backend/internal/handler/message"
	"github.com/zhouzirui/agent-swarm/backend/internal/handler/personality"
	"github.com/zhouzirui/agent-swarm/backend/internal/handler/stream"
	"github.com/zhouzirui/agent-swarm/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/agent-swarm/backend/internal/middleware"
	"github.com/zhouzirui/agent-swarm/backend/internal/service/swarm"
	"github.com/zhouzirui/agent-swarm/backend/pkg/utils"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Info is the payload of GET /.
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// NewRouter wires HTTP routes to the agent swarm.
func NewRouter(s *swarm.Swarm) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, Info{
			Name:        "Agent Swarm API",
			Version:     Version,
			Description: "Routes chat messages to support, knowledge and personality agents",
		})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})

		message.New(s).RegisterRoutes(api)
		personality.New(s.Personality).RegisterRoutes(api)
		stream.New(s).RegisterRoutes(api)
		stream.NewWebSocketHandler(s).RegisterRoutes(api)
	})

	return r
}
