package nodes

import (
	"context"
	"fmt"

	contractx "github.com/robocare/support-agent/agent/contract"
	statex "github.com/robocare/support-agent/agent/state"
)

// keptHistoryTurns is the persisted history bound; a little larger than what
// is surfaced to the model so trims do not thrash.
const keptHistoryTurns = 40

func SaveSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: conversation is missing", contractx.ErrValidation)
	}

	in.Conversation.Append(statex.RoleUser, in.Text, in.Now)
	in.Conversation.Append(statex.RoleAssistant, in.Response.Message, in.Now)
	in.Conversation.Trim(keptHistoryTurns)

	if err := store.Save(ctx, in.Conversation); err != nil {
		return nil, err
	}
	return in, nil
}
