package nodes

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/robocare/support-agent/agent/contract"
	statex "github.com/robocare/support-agent/agent/state"
)

func LoadOrCreateSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	conv, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		conv = statex.NewConversation(in.SessionID, in.Username, in.Now)
	}

	in.Conversation = conv
	return in, nil
}
