package nodes

import (
	"fmt"
	"strings"

	contractx "github.com/robocare/support-agent/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Response.Message)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: support agent returned empty message", contractx.ErrValidation)
	}

	return GraphOutput{
		Reply:       reply,
		OrderID:     in.Response.OrderID,
		OrderStatus: in.Response.OrderStatus,
	}, nil
}
