package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zhouzirui/hyperr-assistant/internal/config"
	"github.com/zhouzirui/hyperr-assistant/internal/model/chat"
)

var ErrInvalidRole = errors.New("invalid message role")

// Store persists sessions and their ordered message history.
type Store interface {
	ListSessions(ctx context.Context) ([]chat.Session, error)
	CreateSession(ctx context.Context) (chat.Session, error)
	GetMessages(ctx context.Context, sessionID string) ([]chat.Message, error)
	DeleteSession(ctx context.Context, sessionID string) error
	AppendMessage(ctx context.Context, sessionID string, role chat.Role, content string) error
	Close() error
}

// New opens the backend selected by cfg.Driver and makes sure its schema exists.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		log.Printf("[store] opening sqlite database at %s", cfg.Path)
		return OpenSQLite(ctx, cfg.Path)
	case config.DriverPostgres:
		log.Println("[store] connecting to postgres")
		return OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

func now() time.Time {
	return time.Now().UTC()
}
