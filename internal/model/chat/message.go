package chat

import "time"

// Role tags who produced a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleBot
}

// Message persists individual turns. ID and SessionID are internal and
// omitted from the transcript payload.
type Message struct {
	ID        int64     `json:"-"`
	SessionID string    `json:"-"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
