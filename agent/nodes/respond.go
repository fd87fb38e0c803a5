package nodes

import (
	"context"
	"fmt"

	supportx "github.com/robocare/support-agent/agent/agents/support"
	contractx "github.com/robocare/support-agent/agent/contract"
)

// Respond produces the final structured reply. When the planning pass
// already answered without tools, that answer stands; otherwise the agent
// runs again with the tool results attached.
func Respond(ctx context.Context, in *GraphState, agent contractx.Agent) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if len(in.Plan.ToolRequests) == 0 {
		if in.Plan.Message == "" {
			return nil, fmt.Errorf("%w: plan has neither tools nor a message", contractx.ErrSchemaViolation)
		}
		in.Response = in.Plan
		return in, nil
	}

	response, err := agent.Run(ctx, contractx.AgentRequest{
		Username:    in.Username,
		UserMessage: in.Text,
		History:     supportx.HistoryFromConversation(in.Conversation, maxHistoryTurns),
		ToolResults: in.ToolResults,
	})
	if err != nil {
		return nil, err
	}
	if len(response.ToolRequests) > 0 {
		return nil, fmt.Errorf("%w: finalize pass returned tool requests", contractx.ErrSchemaViolation)
	}

	in.Response = response
	return in, nil
}
