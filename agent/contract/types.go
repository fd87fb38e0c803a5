package contract

// AgentRequest carries one user message plus the context the support agent
// needs to answer it.
type AgentRequest struct {
	Username    string        `json:"username"`
	UserMessage string        `json:"user_message"`
	History     []HistoryTurn `json:"history,omitempty"`
	ToolResults []ToolResult  `json:"tool_results,omitempty"`
}

// HistoryTurn is a prior exchange surfaced to the model as context.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AgentResponse is the structured reply contract. OrderID and OrderStatus
// are empty when the turn did not touch an order.
type AgentResponse struct {
	Message      string        `json:"message"`
	OrderID      string        `json:"order_id,omitempty"`
	OrderStatus  string        `json:"order_status,omitempty"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries a tool outcome back to the model. Result holds the
// human-readable text on success; Error holds failure text surfaced as data
// so the model can phrase an apology instead of fabricating success.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
