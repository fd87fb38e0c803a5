package orchestrator

import (
	"context"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/robocare/support-agent/agent/contract"
	nodex "github.com/robocare/support-agent/agent/nodes"
	statex "github.com/robocare/support-agent/agent/state"
)

// Orchestrator drives one customer message through the full pipeline:
// validate, load the conversation, plan and execute tools, compose the
// reply, and persist the updated session.
type Orchestrator struct {
	store statex.Store
	agent contractx.Agent
	tools contractx.ToolGateway
	now   func() time.Time

	runner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(ctx context.Context, store statex.Store, agent contractx.Agent, tools contractx.ToolGateway) (*Orchestrator, error) {
	o := &Orchestrator{
		store: store,
		agent: agent,
		tools: tools,
		now:   time.Now,
	}

	runner, err := o.compileGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.runner = runner
	return o, nil
}

// HandleMessage processes a single user message inside the given session and
// returns the assistant's reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID, username, text string) (nodex.GraphOutput, error) {
	started := o.now()

	out, err := o.runner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Username:  username,
		Text:      text,
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("message handling failed")
		return nodex.GraphOutput{}, err
	}

	log.Debug().
		Str("session_id", sessionID).
		Dur("elapsed", time.Since(started)).
		Str("order_id", out.OrderID).
		Msg("message handled")
	return out, nil
}
