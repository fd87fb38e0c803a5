package support

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/robocare/support-agent/agent/contract"
	statex "github.com/robocare/support-agent/agent/state"
)

// supportImpl is the LLM-backed customer-support specialist. One call plans
// tool usage; a follow-up call with tool results produces the structured
// reply surfaced to the user.
type supportImpl struct {
	structuredRunner compose.Runnable[map[string]any, supportLLMOutput]
	toolRunner       compose.Runnable[map[string]any, *schema.Message]
	allowedTools     map[string]struct{}
}

// supportLLMOutput mirrors the structured reply contract: a message plus the
// order id/status the turn touched, if any.
type supportLLMOutput struct {
	Message     string `json:"message"`
	OrderID     string `json:"order_id,omitempty"`
	OrderStatus string `json:"order_status,omitempty"`
}

var _ contractx.Agent = (*supportImpl)(nil)

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
) (contractx.Agent, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: support prompt is empty", contractx.ErrPromptMissing)
	}

	structuredRunner, err := compileStructuredReplyGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile structured reply graph: %v", contractx.ErrModelInvoke, err)
	}

	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind support tools: %v", contractx.ErrModelInvoke, err)
	}
	toolRunner, err := compileToolPlanningGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile tool planning graph: %v", contractx.ErrModelInvoke, err)
	}

	allowedTools := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowedTools[t.Name] = struct{}{}
	}

	return &supportImpl{
		structuredRunner: structuredRunner,
		toolRunner:       toolRunner,
		allowedTools:     allowedTools,
	}, nil
}

// Run plans tools on the first pass and finalizes once tool results are
// attached to the request.
func (s *supportImpl) Run(ctx context.Context, req contractx.AgentRequest) (contractx.AgentResponse, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.AgentResponse{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	if len(req.ToolResults) == 0 {
		return s.runToolPlanning(ctx, req)
	}
	return s.runStructured(ctx, req)
}

func (s *supportImpl) runToolPlanning(ctx context.Context, req contractx.AgentRequest) (contractx.AgentResponse, error) {
	input, err := marshalPayload(map[string]any{
		"mode":         "act",
		"username":     req.Username,
		"user_message": req.UserMessage,
		"history":      req.History,
	})
	if err != nil {
		return contractx.AgentResponse{}, err
	}

	msg, err := s.toolRunner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		return contractx.AgentResponse{}, fmt.Errorf("%w: tool planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.AgentResponse{}, fmt.Errorf("%w: empty tool planning response", contractx.ErrSchemaViolation)
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.AgentResponse{}, err
	}

	if len(toolRequests) == 0 {
		// The model chose to answer directly, without tools.
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return contractx.AgentResponse{}, fmt.Errorf("%w: planning produced neither tools nor a message", contractx.ErrSchemaViolation)
		}
		return contractx.AgentResponse{Message: content}, nil
	}

	for _, tr := range toolRequests {
		if _, ok := s.allowedTools[tr.Tool]; !ok {
			return contractx.AgentResponse{}, fmt.Errorf("%w: tool=%s is not in the catalog", contractx.ErrSchemaViolation, tr.Tool)
		}
	}

	return contractx.AgentResponse{ToolRequests: toolRequests}, nil
}

func (s *supportImpl) runStructured(ctx context.Context, req contractx.AgentRequest) (contractx.AgentResponse, error) {
	input, err := marshalPayload(map[string]any{
		"mode":         "finalize",
		"username":     req.Username,
		"user_message": req.UserMessage,
		"history":      req.History,
		"tool_results": req.ToolResults,
	})
	if err != nil {
		return contractx.AgentResponse{}, err
	}

	out, err := s.structuredRunner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		return contractx.AgentResponse{}, fmt.Errorf("%w: support invoke: %v", contractx.ErrModelInvoke, err)
	}

	message := strings.TrimSpace(out.Message)
	if message == "" {
		return contractx.AgentResponse{}, fmt.Errorf("%w: support message is empty", contractx.ErrSchemaViolation)
	}

	return contractx.AgentResponse{
		Message:     message,
		OrderID:     strings.TrimSpace(out.OrderID),
		OrderStatus: strings.TrimSpace(out.OrderStatus),
	}, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal support payload: %v", contractx.ErrValidation, err)
	}
	return string(raw), nil
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		if rawArgs := strings.TrimSpace(call.Function.Arguments); rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{Tool: tool, Args: args})
	}
	return reqs, nil
}

// HistoryFromConversation converts stored turns into the wire shape the
// model sees.
func HistoryFromConversation(conv *statex.Conversation, max int) []contractx.HistoryTurn {
	if conv == nil {
		return nil
	}
	turns := conv.Recent(max)
	if len(turns) == 0 {
		return nil
	}
	history := make([]contractx.HistoryTurn, 0, len(turns))
	for _, turn := range turns {
		history = append(history, contractx.HistoryTurn{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	return history
}
