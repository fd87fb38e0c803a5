package contract

import "context"

// Agent is the LLM-backed support specialist. A response contains either a
// final Message or ToolRequests to execute before calling Run again with
// the results.
type Agent interface {
	Run(ctx context.Context, req AgentRequest) (AgentResponse, error)
}

// ToolGateway executes tool requests issued by the agent. Domain "not
// found" outcomes are reported inside ToolResult, never as an error; the
// returned error is reserved for backend unavailability.
type ToolGateway interface {
	Execute(ctx context.Context, reqs []ToolRequest) ([]ToolResult, error)
}
