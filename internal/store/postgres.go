package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhouzirui/hyperr-assistant/internal/model/chat"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		seq BIGSERIAL
	);
	ALTER TABLE sessions ADD COLUMN IF NOT EXISTS seq BIGSERIAL;

	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id, id);
`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// OpenPostgres connects to databaseURL and creates the schema if absent.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(connectCtx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool, now: now}, nil
}

// TIMESTAMPTZ keeps microseconds; values handed back to callers must match
// what a later read returns.
func (s *PostgresStore) timestamp() time.Time {
	return s.now().Truncate(time.Microsecond)
}

func (s *PostgresStore) ListSessions(ctx context.Context) ([]chat.Session, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, created_at FROM sessions ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]chat.Session, 0)
	for rows.Next() {
		var session chat.Session
		if err := rows.Scan(&session.ID, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.CreatedAt = session.CreatedAt.UTC()
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *PostgresStore) CreateSession(ctx context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.timestamp(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, created_at) VALUES ($1, $2)`,
		session.ID, session.CreatedAt,
	)
	if err != nil {
		return chat.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

func (s *PostgresStore) GetMessages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, role, content, timestamp FROM messages WHERE session_id = $1 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages for %s: %w", sessionID, err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0)
	for rows.Next() {
		var (
			msg  chat.Message
			role string
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = chat.Role(role)
		msg.Timestamp = msg.Timestamp.UTC()
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *PostgresStore) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete messages of %s: %w", sessionID, err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) AppendMessage(ctx context.Context, sessionID string, role chat.Role, content string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (session_id, role, content, timestamp) VALUES ($1, $2, $3, $4)`,
		sessionID, string(role), content, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("insert %s message for %s: %w", role, sessionID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
