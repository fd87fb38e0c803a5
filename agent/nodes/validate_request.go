package nodes

import (
	"strings"
	"time"
)

func ValidateRequest(in GraphInput, now func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Username:  username,
		Text:      text,
		Now:       now(),
	}, nil
}
