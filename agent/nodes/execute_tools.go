package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/robocare/support-agent/agent/contract"
)

func ExecuteTools(ctx context.Context, in *GraphState, tools contractx.ToolGateway) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Plan.ToolRequests) == 0 {
		return in, nil
	}

	results, err := tools.Execute(ctx, in.Plan.ToolRequests)
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		if result.Error != "" {
			log.Warn().
				Str("session_id", in.SessionID).
				Str("tool", result.Tool).
				Str("error", result.Error).
				Msg("tool reported a problem")
		}
	}

	in.ToolResults = results
	return in, nil
}
