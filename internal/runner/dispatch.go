package runner

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/petasbytes/toolloop/internal/telemetry"
	"github.com/petasbytes/toolloop/memory"
	"github.com/petasbytes/toolloop/tools"
)

// ToolNotFound is the fixed result content for a request naming no registered tool.
const ToolNotFound = "Tool not found"

// Dispatcher executes a single tool request and maps the outcome to a result turn.
type Dispatcher struct {
	registry *tools.Registry
	out      LineSink
	log      *slog.Logger
}

func NewDispatcher(registry *tools.Registry, out LineSink, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{registry: registry, out: out, log: log}
}

// Dispatch never fails: lookup, validation and execution failures become
// result content with IsError set.
func (d *Dispatcher) Dispatch(ctx context.Context, req memory.ToolRequest) memory.Turn {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	start := time.Now()

	emit := func(inputSize, outputSize int, errClass string) {
		fields := map[string]any{
			"tool_name":   req.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errClass != "" {
			fields["error"] = errClass
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	def, ok := d.registry.Lookup(req.Name)
	if !ok {
		d.log.Warn("unknown tool requested", "tool", req.Name, "call_id", req.ID)
		emit(0, 0, "tool not found")
		return memory.ToolResultTurn(req.ID, req.Name, ToolNotFound, true)
	}

	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}
	input, err := json.Marshal(args)
	if err != nil {
		emit(0, 0, "invalid arguments")
		return memory.ToolResultTurn(req.ID, req.Name, err.Error(), true)
	}
	if d.out != nil {
		d.out.ToolCall(req.Name, string(input))
	}
	d.log.Debug("tool call", "tool", req.Name, "call_id", req.ID, "input_size", len(input))

	if err := tools.ValidateArguments(def.InputSchema, args); err != nil {
		emit(len(input), 0, "invalid arguments")
		return memory.ToolResultTurn(req.ID, req.Name, err.Error(), true)
	}

	out, err := def.Function(input)
	if err != nil {
		// Generic class only; raw payloads stay out of telemetry.
		class := "tool error"
		if errors.Is(err, tools.ErrInvalidArguments) {
			class = "invalid arguments"
		}
		d.log.Debug("tool failed", "tool", req.Name, "call_id", req.ID, "error", err)
		emit(len(input), 0, class)
		return memory.ToolResultTurn(req.ID, req.Name, err.Error(), true)
	}
	emit(len(input), len(out), "")
	return memory.ToolResultTurn(req.ID, req.Name, out, false)
}
