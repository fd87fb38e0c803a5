package tool

import (
	"context"
	"fmt"

	contractx "github.com/robocare/support-agent/agent/contract"
)

// The order tools return single human-readable strings; the orchestration
// layer surfaces them to the end user directly or semi-directly. A missing
// order is a normal result phrased politely, never an error.

func (g *Gateway) executeCreateOrder(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	username, err := stringArg(args, "username")
	if err != nil {
		return argError(ToolOrdersCreate, err), nil
	}
	item, err := stringArg(args, "item")
	if err != nil {
		return argError(ToolOrdersCreate, err), nil
	}
	quantity, err := intArg(args, "quantity")
	if err != nil {
		return argError(ToolOrdersCreate, err), nil
	}
	if quantity <= 0 {
		return argError(ToolOrdersCreate, fmt.Errorf("quantity must be positive, got %d", quantity)), nil
	}

	order, err := g.orders.Create(ctx, username, item, quantity)
	if err != nil {
		return contractx.ToolResult{}, err
	}

	return contractx.ToolResult{
		Tool: ToolOrdersCreate,
		Result: fmt.Sprintf("Order %s has been created for %s: %d x %s.",
			order.OrderID, order.Username, order.Quantity, order.Item),
	}, nil
}

func (g *Gateway) executeOrderStatus(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	orderID, err := stringArg(args, "order_id")
	if err != nil {
		return argError(ToolOrdersStatus, err), nil
	}
	username, err := stringArg(args, "username")
	if err != nil {
		return argError(ToolOrdersStatus, err), nil
	}

	order, found, err := g.orders.Get(ctx, orderID, username)
	if err != nil {
		return contractx.ToolResult{}, err
	}
	if !found {
		return contractx.ToolResult{
			Tool:   ToolOrdersStatus,
			Result: notFoundMessage(orderID, username),
		}, nil
	}

	return contractx.ToolResult{
		Tool:   ToolOrdersStatus,
		Result: fmt.Sprintf("Order %s status: %s.", order.OrderID, order.Status),
	}, nil
}

func (g *Gateway) executeCancelOrder(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	orderID, err := stringArg(args, "order_id")
	if err != nil {
		return argError(ToolOrdersCancel, err), nil
	}
	username, err := stringArg(args, "username")
	if err != nil {
		return argError(ToolOrdersCancel, err), nil
	}
	reason, err := stringArg(args, "reason")
	if err != nil {
		return argError(ToolOrdersCancel, err), nil
	}

	matched, err := g.orders.Cancel(ctx, orderID, username)
	if err != nil {
		return contractx.ToolResult{}, err
	}
	if !matched {
		return contractx.ToolResult{
			Tool:   ToolOrdersCancel,
			Result: notFoundMessage(orderID, username),
		}, nil
	}

	// The reason appears in the confirmation only; it is not persisted.
	return contractx.ToolResult{
		Tool:   ToolOrdersCancel,
		Result: fmt.Sprintf("Order %s has been cancelled. Reason: %s.", orderID, reason),
	}, nil
}

func notFoundMessage(orderID, username string) string {
	return fmt.Sprintf("No order %s was found for user %s.", orderID, username)
}

func argError(tool string, err error) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Error: err.Error()}
}
