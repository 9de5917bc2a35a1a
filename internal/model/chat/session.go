package chat

import "time"

// Session is one conversation thread. It is never mutated after creation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
