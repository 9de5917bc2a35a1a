package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatService "github.com/zhouzirui/hyperr-assistant/internal/service/chat"
)

const (
	defaultPongWait = 90 * time.Second
	writeWait       = 10 * time.Second
)

// Handler serves chat turns over a WebSocket. Each inbound frame is one
// complete, non-streaming turn.
type Handler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
	// pongWait bounds idle time between frames. It does not apply while a
	// turn is being answered.
	pongWait   time.Duration
	pingPeriod time.Duration
}

// New 创建WebSocket处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{
		chatSvc:    chatSvc,
		pongWait:   defaultPongWait,
		pingPeriod: defaultPongWait / 3,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Message string `json:"message"`
}

type outgoingMessage struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] new connection for session=%s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongWait))
		return nil
	})

	go pingLoop(ctx, conn, h.pingPeriod)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}
		// An inference call may outlast pongWait; the deadline is restored
		// once the reply is written.
		conn.SetReadDeadline(time.Time{})

		out := outgoingMessage{SessionID: sessionID}
		reply, err := h.chatSvc.Reply(ctx, sessionID, msg.Message)
		switch {
		case errors.Is(err, chatService.ErrSessionRequired):
			out.Error = "session_id is required"
		case err != nil:
			log.Printf("[ws] turn for session=%s failed: %v", sessionID, err)
			out.Error = "failed to process message"
		default:
			out.Response = reply
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[ws] write failed for session=%s: %v", sessionID, err)
			return
		}
		conn.SetReadDeadline(time.Now().Add(h.pongWait))
	}
}

func pingLoop(ctx context.Context, conn *websocket.Conn, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
