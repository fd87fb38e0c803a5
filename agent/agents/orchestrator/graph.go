package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/robocare/support-agent/agent/nodes"
)

const (
	nodeValidateRequest = "validate_request"
	nodeLoadSession     = "load_or_create_session"
	nodePlanTools       = "plan_tools"
	nodeExecuteTools    = "execute_tools"
	nodeRespond         = "respond"
	nodeSaveSession     = "save_session"
	nodeFinalizeReply   = "finalize_reply"
)

func (o *Orchestrator) compileGraph(ctx context.Context) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	g := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := g.AddLambdaNode(nodeValidateRequest, compose.InvokableLambda(
		func(_ context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		})); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeValidateRequest, err)
	}
	if err := g.AddLambdaNode(nodeLoadSession, compose.InvokableLambda(
		func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadOrCreateSession(ctx, in, o.store)
		})); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeLoadSession, err)
	}
	if err := g.AddLambdaNode(nodePlanTools, compose.InvokableLambda(
		func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PlanTools(ctx, in, o.agent)
		})); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodePlanTools, err)
	}
	if err := g.AddLambdaNode(nodeExecuteTools, compose.InvokableLambda(
		func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteTools(ctx, in, o.tools)
		})); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeExecuteTools, err)
	}
	if err := g.AddLambdaNode(nodeRespond, compose.InvokableLambda(
		func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Respond(ctx, in, o.agent)
		})); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeRespond, err)
	}
	if err := g.AddLambdaNode(nodeSaveSession, compose.InvokableLambda(
		func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveSession(ctx, in, o.store)
		})); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeSaveSession, err)
	}
	if err := g.AddLambdaNode(nodeFinalizeReply, compose.InvokableLambda(
		func(_ context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		})); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeFinalizeReply, err)
	}

	edges := [][2]string{
		{compose.START, nodeValidateRequest},
		{nodeValidateRequest, nodeLoadSession},
		{nodeLoadSession, nodePlanTools},
		{nodePlanTools, nodeExecuteTools},
		{nodeExecuteTools, nodeRespond},
		{nodeRespond, nodeSaveSession},
		{nodeSaveSession, nodeFinalizeReply},
		{nodeFinalizeReply, compose.END},
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", e[0], e[1], err)
		}
	}

	return g.Compile(ctx, compose.WithGraphName("support.orchestrator_graph"))
}
