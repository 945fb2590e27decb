package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/agent-swarm/backend/internal/service/swarm"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler answers chat messages over a persistent connection.
type WebSocketHandler struct {
	swarm    *swarm.Swarm
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket handler.
func NewWebSocketHandler(s *swarm.Swarm) *WebSocketHandler {
	return &WebSocketHandler{
		swarm: s,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts GET /ws.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// InboundMessage is a client frame.
type InboundMessage struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	Personality string `json:"personality,omitempty"`
}

// OutboundMessage is a server frame.
type OutboundMessage struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connection_id"`
	Data         any    `json:"data,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	*websocket.Conn
	id     string
	mu     sync.Mutex
	logger zerolog.Logger
}

func (c *conn) send(kind string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	msg := OutboundMessage{Type: kind, ConnectionID: c.id, Data: data, Timestamp: time.Now().Unix()}
	if err := c.WriteJSON(msg); err != nil {
		c.logger.Debug().Err(err).Str("type", kind).Msg("websocket write failed")
	}
}

func (c *conn) sendError(message string) {
	c.send("error", map[string]string{"message": message})
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "websocket").Msg("upgrade failed")
		return
	}
	defer ws.Close()

	id := uuid.NewString()
	c := &conn{
		Conn:   ws,
		id:     id,
		logger: log.With().Str("component", "websocket").Str("connection_id", id).Logger(),
	}
	c.logger.Info().Msg("connection opened")

	ctx, cancel := context.WithCancel(r.Context())

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.pingLoop(ctx, c)
	}()
	defer wg.Wait()
	defer cancel()

	c.send("connected", nil)

	for {
		var msg InboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			c.logger.Info().Msg("connection closed")
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		h.handleMessage(ctx, c, msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, c *conn, msg InboundMessage) {
	if msg.Type != "message" {
		c.sendError("unsupported message type: " + msg.Type)
		return
	}

	outcome, err := h.swarm.Handle(ctx, msg.Message, msg.UserID, msg.Personality)
	switch {
	case errors.Is(err, swarm.ErrEmptyMessage), errors.Is(err, swarm.ErrEmptyUserID):
		c.sendError(err.Error())
		return
	case err != nil:
		c.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("failed to process message")
		c.sendError("Error processing message: " + err.Error())
		return
	}

	c.send("response", outcome.Reply())
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
