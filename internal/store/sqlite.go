package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/zhouzirui/hyperr-assistant/internal/model/chat"
)

// timeLayout is fixed width so that lexical order of the stored text matches
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id, id);
`

// SQLiteStore implements Store on a single local database file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path, ensuring that the
// parent directory exists and the schema is in place.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	if err := initSQLiteSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, now: now}, nil
}

func initSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

// ListSessions returns all sessions, most recent first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]chat.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at FROM sessions ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]chat.Session, 0)
	for rows.Next() {
		var (
			session chat.Session
			created string
		)
		if err := rows.Scan(&session.ID, &created); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if session.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse session %s created_at: %w", session.ID, err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// CreateSession provisions a new session with a random identifier.
func (s *SQLiteStore) CreateSession(ctx context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at) VALUES (?, ?)`,
		session.ID, session.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return chat.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// GetMessages returns the transcript in insertion order. An unknown session
// yields an empty transcript.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, timestamp FROM messages WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages for %s: %w", sessionID, err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0)
	for rows.Next() {
		var (
			msg chat.Message
			ts  string
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if msg.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("parse message %d timestamp: %w", msg.ID, err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteSession removes the session and all of its messages. Deleting an
// unknown id is not an error.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete messages of %s: %w", sessionID, err)
	}
	return tx.Commit()
}

// AppendMessage inserts one immutable turn stamped with the current time.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID string, role chat.Role, content string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
		sessionID, string(role), content, s.now().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert %s message for %s: %w", role, sessionID, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
