package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/robocare/support-agent/agent/contract"
	faqx "github.com/robocare/support-agent/agent/faq"
	ordersx "github.com/robocare/support-agent/agent/orders"
)

const (
	ToolOrdersCreate = "orders.create"
	ToolOrdersStatus = "orders.status"
	ToolOrdersCancel = "orders.cancel"
	ToolFAQSearch    = "faq.search"
)

// OrderBook is the slice of the order store the gateway depends on.
type OrderBook interface {
	Create(ctx context.Context, username, item string, quantity int64) (ordersx.Order, error)
	Get(ctx context.Context, orderID, username string) (ordersx.Order, bool, error)
	Cancel(ctx context.Context, orderID, username string) (bool, error)
}

// Searcher is the slice of the FAQ retriever the gateway depends on.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]faqx.Result, error)
}

// Gateway executes tool requests against the order store and FAQ retriever.
// Dynamic arguments from the model are validated here, at the boundary;
// argument problems and domain not-found outcomes travel back as result
// data, while backend unavailability propagates as an error.
type Gateway struct {
	orders OrderBook
	faq    Searcher
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(orders OrderBook, faq Searcher) (*Gateway, error) {
	if orders == nil {
		return nil, errors.New("order store is required")
	}
	if faq == nil {
		return nil, errors.New("faq retriever is required")
	}
	return &Gateway{orders: orders, faq: faq}, nil
}

func (g *Gateway) Execute(ctx context.Context, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		result, err := g.executeOne(ctx, req)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (g *Gateway) executeOne(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	switch req.Tool {
	case ToolOrdersCreate:
		return g.executeCreateOrder(ctx, req.Args)
	case ToolOrdersStatus:
		return g.executeOrderStatus(ctx, req.Args)
	case ToolOrdersCancel:
		return g.executeCancelOrder(ctx, req.Args)
	case ToolFAQSearch:
		return g.executeFAQSearch(ctx, req.Args)
	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("tool=%s is unavailable", req.Tool),
		}, nil
	}
}

// Infos describes the callable tools exposed to the support agent.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolOrdersCreate,
			Desc: "Create a new order and save it to the order database.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"username": {Type: schema.String, Desc: "Customer username", Required: true},
				"item":     {Type: schema.String, Desc: "Product name", Required: true},
				"quantity": {Type: schema.Integer, Desc: "Number of units, must be positive", Required: true},
			}),
		},
		{
			Name: ToolOrdersStatus,
			Desc: "Check the status of an existing order.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.String, Desc: "8-character order identifier", Required: true},
				"username": {Type: schema.String, Desc: "Customer username", Required: true},
			}),
		},
		{
			Name: ToolOrdersCancel,
			Desc: "Cancel an order and update its status in the database.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.String, Desc: "8-character order identifier", Required: true},
				"username": {Type: schema.String, Desc: "Customer username", Required: true},
				"reason":   {Type: schema.String, Desc: "Why the customer cancels", Required: true},
			}),
		},
		{
			Name: ToolFAQSearch,
			Desc: "Search the support FAQ for relevant answers using semantic search.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "The customer's question or problem description", Required: true},
				"limit": {Type: schema.Integer, Desc: "Maximum number of results", Required: false},
			}),
		},
	}
}

// Build wires the catalog for the support agent: the tool descriptions the
// model binds to plus the gateway that executes them.
func Build(orders OrderBook, faq Searcher) ([]*schema.ToolInfo, *Gateway, error) {
	gateway, err := NewGateway(orders, faq)
	if err != nil {
		return nil, nil, err
	}
	return Infos(), gateway, nil
}
