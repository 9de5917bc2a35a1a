package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/zhouzirui/hyperr-assistant/internal/service/chat"
	"github.com/zhouzirui/hyperr-assistant/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册会话与聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.handleListSessions)
	r.Post("/new_session", h.handleCreateSession)
	r.Get("/chat/{sessionID}", h.handleGetTranscript)
	r.Delete("/session/{sessionID}", h.handleDeleteSession)
	r.Post("/chat", h.handleChat)
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse carries the bot reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// handleListSessions 列出所有会话，最新的在前
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chatSvc.ListSessions(r.Context())
	if err != nil {
		log.Printf("[chat] list sessions failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessions)
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		log.Printf("[chat] create session failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

// handleGetTranscript 返回会话的消息记录
func (h *Handler) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		log.Printf("[chat] load transcript for session=%s failed: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

// handleDeleteSession 删除会话及其消息
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.chatSvc.DeleteSession(r.Context(), sessionID); err != nil {
		log.Printf("[chat] delete session=%s failed: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleChat 处理一轮对话
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatSvc.Reply(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		if errors.Is(err, chatService.ErrSessionRequired) {
			utils.RespondError(w, http.StatusBadRequest, "session_id is required")
			return
		}
		log.Printf("[chat] turn for session=%s failed: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ChatResponse{Response: reply})
}
