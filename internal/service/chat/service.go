package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zhouzirui/hyperr-assistant/internal/model/chat"
	"github.com/zhouzirui/hyperr-assistant/internal/service/ai"
	"github.com/zhouzirui/hyperr-assistant/internal/store"
)

// EmptyMessageReply answers a blank message without touching the store.
const EmptyMessageReply = "Please enter a message."

var ErrSessionRequired = errors.New("session id is required")

// Completer produces a reply for a composed system prompt and user message.
// It never fails; backend errors come back as reply text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) string
}

// Service runs chat turns against the store and the inference gateway.
type Service struct {
	store     store.Store
	completer Completer
	docs      string
}

// NewService wires a chat service. docs is the documentation text loaded at startup.
func NewService(st store.Store, completer Completer, docs string) *Service {
	return &Service{
		store:     st,
		completer: completer,
		docs:      docs,
	}
}

// Reply persists the user turn, asks the model, persists the bot turn and
// returns the reply. Only storage failures produce an error.
func (s *Service) Reply(ctx context.Context, sessionID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return EmptyMessageReply, nil
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrSessionRequired
	}

	if err := s.store.AppendMessage(ctx, sessionID, chat.RoleUser, message); err != nil {
		return "", fmt.Errorf("save user message: %w", err)
	}

	reply := s.completer.Complete(ctx, ai.Compose(s.docs, message), message)

	if err := s.store.AppendMessage(ctx, sessionID, chat.RoleBot, reply); err != nil {
		return "", fmt.Errorf("save bot message: %w", err)
	}

	log.Printf("[chat] session=%s answered, reply length=%d", sessionID, len(reply))
	return reply, nil
}

// ListSessions returns sessions, most recent first.
func (s *Service) ListSessions(ctx context.Context) ([]chat.Session, error) {
	return s.store.ListSessions(ctx)
}

// CreateSession provisions a new empty session.
func (s *Service) CreateSession(ctx context.Context) (chat.Session, error) {
	session, err := s.store.CreateSession(ctx)
	if err != nil {
		return chat.Session{}, err
	}
	log.Printf("[chat] created session=%s", session.ID)
	return session, nil
}

// LoadTranscript returns stored messages for the provided session. Unknown
// sessions have an empty transcript.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	return s.store.GetMessages(ctx, sessionID)
}

// DeleteSession drops a session and its messages.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	log.Printf("[chat] deleted session=%s", sessionID)
	return nil
}
