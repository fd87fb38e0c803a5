package state

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps conversations in process memory. Used for local runs
// and for test isolation: every test constructs its own store.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]*Conversation
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string]*Conversation)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Conversation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	conv, ok := s.convs[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	return cloneConversation(conv), nil
}

func (s *MemoryStore) Save(ctx context.Context, conv *Conversation) error {
	if conv == nil {
		return ErrNilConversation
	}
	if err := conv.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.convs[conv.SessionID] = cloneConversation(conv)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	delete(s.convs, sessionID)
	s.mu.Unlock()
	return nil
}

func cloneConversation(conv *Conversation) *Conversation {
	clone := *conv
	clone.Turns = append([]Turn(nil), conv.Turns...)
	return &clone
}
