package state

import (
	"errors"
	"strings"
	"time"
)

// Conversation is the per-session state. It is always passed explicitly and
// loaded/saved through a Store; nothing here is process-global, so
// concurrent sessions never share mutable history.
type Conversation struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	Turns     []Turn    `json:"turns,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidRole    = errors.New("turn role is invalid")
)

func NewConversation(sessionID, username string, now time.Time) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		Username:  username,
		UpdatedAt: now.UTC(),
	}
}

func (c *Conversation) Touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

func (c *Conversation) Append(role Role, content string, now time.Time) {
	c.Turns = append(c.Turns, Turn{
		Role:    role,
		Content: content,
		At:      now.UTC(),
	})
	c.Touch(now)
}

// Trim keeps only the most recent maxTurns turns.
func (c *Conversation) Trim(maxTurns int) {
	if maxTurns <= 0 || len(c.Turns) <= maxTurns {
		return
	}
	c.Turns = append([]Turn(nil), c.Turns[len(c.Turns)-maxTurns:]...)
}

// Recent returns up to max most recent turns, oldest first.
func (c *Conversation) Recent(max int) []Turn {
	if c == nil || max <= 0 {
		return nil
	}
	turns := c.Turns
	if len(turns) > max {
		turns = turns[len(turns)-max:]
	}
	return append([]Turn(nil), turns...)
}

func (c *Conversation) Validate() error {
	if strings.TrimSpace(c.SessionID) == "" {
		return ErrInvalidSession
	}
	for _, turn := range c.Turns {
		if turn.Role != RoleUser && turn.Role != RoleAssistant {
			return ErrInvalidRole
		}
	}
	return nil
}
