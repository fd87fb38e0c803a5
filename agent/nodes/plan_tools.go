package nodes

import (
	"context"
	"fmt"

	supportx "github.com/robocare/support-agent/agent/agents/support"
	contractx "github.com/robocare/support-agent/agent/contract"
)

// maxHistoryTurns bounds the context window handed to the model.
const maxHistoryTurns = 20

func PlanTools(ctx context.Context, in *GraphState, agent contractx.Agent) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	plan, err := agent.Run(ctx, contractx.AgentRequest{
		Username:    in.Username,
		UserMessage: in.Text,
		History:     supportx.HistoryFromConversation(in.Conversation, maxHistoryTurns),
	})
	if err != nil {
		return nil, err
	}

	in.Plan = plan
	return in, nil
}
