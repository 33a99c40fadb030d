package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/petasbytes/toolloop/internal/gateway"
	"github.com/petasbytes/toolloop/internal/pairing"
	"github.com/petasbytes/toolloop/internal/telemetry"
	"github.com/petasbytes/toolloop/memory"
	"github.com/petasbytes/toolloop/tools"
)

// State is the controller's position in the session loop.
type State string

const (
	StateAwaitInput    State = "await_input"
	StateQueryModel    State = "query_model"
	StateDispatchTools State = "dispatch_tools"
	StateDone          State = "done"
)

var (
	// ErrGateway wraps completion failures. They end the session.
	ErrGateway = errors.New("runner: completion gateway failed")
	// ErrSessionDone is returned by Step once the session has ended.
	ErrSessionDone = errors.New("runner: session is done")
)

// Controller owns the conversation store and moves between states.
// It is single-threaded: Step and Run must not be called concurrently.
type Controller struct {
	gw         gateway.Gateway
	registry   *tools.Registry
	dispatcher *Dispatcher
	store      *memory.Store
	in         LineSource
	out        LineSink
	log        *slog.Logger
	counter    pairing.TokenCounter
	model      string

	state  State
	turnID string
}

type Option func(*Controller)

// WithModel sets the model name passed to the gateway. Empty means the backend default.
func WithModel(model string) Option {
	return func(c *Controller) { c.model = model }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func New(gw gateway.Gateway, registry *tools.Registry, in LineSource, out LineSink, opts ...Option) *Controller {
	c := &Controller{
		gw:       gw,
		registry: registry,
		store:    memory.NewStore(),
		in:       in,
		out:      out,
		log:      slog.Default(),
		counter:  pairing.HeuristicCounter{},
		state:    StateAwaitInput,
	}
	for _, o := range opts {
		o(c)
	}
	c.dispatcher = NewDispatcher(registry, out, c.log)
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Store() *memory.Store { return c.store }

// Run steps until the session is done. It returns nil when input ends and the
// first fatal error otherwise, including ctx.Err() on cancellation.
func (c *Controller) Run(ctx context.Context) error {
	for c.state != StateDone {
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step performs one transition.
func (c *Controller) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		c.state = StateDone
		return err
	}
	var err error
	switch c.state {
	case StateAwaitInput:
		err = c.awaitInput(ctx)
	case StateQueryModel:
		err = c.queryModel(ctx)
	case StateDispatchTools:
		err = c.dispatchTools(ctx)
	case StateDone:
		return ErrSessionDone
	default:
		err = fmt.Errorf("runner: unknown state %q", c.state)
	}
	if err != nil {
		c.state = StateDone
	}
	return err
}

func (c *Controller) awaitInput(ctx context.Context) error {
	if c.out != nil {
		c.out.Prompt()
	}
	line, err := c.in.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		c.log.Debug("input closed")
		c.state = StateDone
		return nil
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) == "" {
		c.log.Debug("empty input line, ending session")
		c.state = StateDone
		return nil
	}

	if err := c.store.Append(memory.UserTurn(line)); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	// a turn id already carried by ctx is kept for the whole session
	ctx, c.turnID = telemetry.EnsureTurnID(ctx)
	telemetry.EmitLocalFeatures(ctx, line)
	c.state = StateQueryModel
	return nil
}

func (c *Controller) queryModel(ctx context.Context) error {
	ctx = c.turnContext(ctx)
	turns := c.store.Turns()
	stats, err := pairing.Prepare(turns, c.counter)
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	telemetry.Emit("request_prepared", map[string]any{
		"turn_id":          c.turnID,
		"model":            c.model,
		"turns":            stats.Turns,
		"groups":           stats.Groups,
		"exchanges":        stats.Exchanges,
		"estimated_tokens": stats.EstimatedTokens,
	})
	c.log.Debug("querying model", "turn_id", c.turnID, "turns", stats.Turns, "estimated_tokens", stats.EstimatedTokens)

	reply, err := c.gw.Complete(ctx, gateway.Request{
		Model: c.model,
		Turns: turns,
		Tools: c.registry.Definitions(),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Error("completion failed", "turn_id", c.turnID, "error", err)
		return fmt.Errorf("%w: %w", ErrGateway, err)
	}
	reply = c.withUniqueCallIDs(reply)
	if err := c.store.Append(reply); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	if reply.Content != "" && c.out != nil {
		c.out.Reply(reply.Content)
	}
	if len(reply.ToolRequests) == 0 {
		c.state = StateAwaitInput
		return nil
	}
	c.state = StateDispatchTools
	return nil
}

func (c *Controller) dispatchTools(ctx context.Context) error {
	ctx = c.turnContext(ctx)
	last, ok := c.store.Last()
	if !ok || last.Role != memory.RoleAssistant {
		return fmt.Errorf("runner: no assistant turn to dispatch")
	}
	for _, req := range last.ToolRequests {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := c.dispatcher.Dispatch(ctx, req)
		if err := c.store.Append(res); err != nil {
			return fmt.Errorf("runner: %w", err)
		}
	}
	c.state = StateQueryModel
	return nil
}

// withUniqueCallIDs gives requests with a missing or repeated id a fresh
// call_<uuid> so each one can be answered exactly once.
func (c *Controller) withUniqueCallIDs(t memory.Turn) memory.Turn {
	t.ToolRequests = slices.Clone(t.ToolRequests)
	seen := make(map[string]struct{}, len(t.ToolRequests))
	for i, r := range t.ToolRequests {
		if _, dup := seen[r.ID]; dup || r.ID == "" {
			id := "call_" + uuid.NewString()
			c.log.Warn("reassigned tool call id", "tool", r.Name, "old_id", r.ID, "new_id", id)
			t.ToolRequests[i].ID = id
		}
		seen[t.ToolRequests[i].ID] = struct{}{}
	}
	return t
}

func (c *Controller) turnContext(ctx context.Context) context.Context {
	if c.turnID == "" {
		ctx, c.turnID = telemetry.EnsureTurnID(ctx)
		return ctx
	}
	return telemetry.WithTurnID(ctx, c.turnID)
}
