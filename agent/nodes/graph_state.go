package nodes

import (
	"errors"
	"time"

	contractx "github.com/robocare/support-agent/agent/contract"
	statex "github.com/robocare/support-agent/agent/state"
)

var (
	ErrInvalidSession  = errors.New("session id is required")
	ErrInvalidUsername = errors.New("username is required")
	ErrInvalidMessage  = errors.New("message text is required")
)

type GraphInput struct {
	SessionID string
	Username  string
	Text      string
}

type GraphOutput struct {
	Reply       string
	OrderID     string
	OrderStatus string
}

// GraphState is threaded through the per-message pipeline.
type GraphState struct {
	SessionID string
	Username  string
	Text      string
	Now       time.Time

	Conversation *statex.Conversation
	Plan         contractx.AgentResponse
	ToolResults  []contractx.ToolResult
	Response     contractx.AgentResponse
}
