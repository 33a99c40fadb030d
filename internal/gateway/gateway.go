package gateway

import (
	"context"
	"errors"

	"github.com/petasbytes/toolloop/memory"
	"github.com/petasbytes/toolloop/tools"
)

// Request is one completion call: the full ordered conversation plus every tool
// the model may request.
type Request struct {
	Model  string
	Turns  []memory.Turn
	Tools  []tools.ToolDefinition
	Stream bool
}

// Gateway completes a conversation with one assistant turn.
type Gateway interface {
	Complete(ctx context.Context, req Request) (memory.Turn, error)
}

var (
	ErrStreamingUnsupported = errors.New("gateway: streaming responses are not supported")
	ErrEmptyResponse        = errors.New("gateway: response carried no message")
)
