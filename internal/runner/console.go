package runner

import "context"

// LineSource yields one line of user input per call. It returns io.EOF when
// input is exhausted and ctx.Err() when ctx is cancelled first.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// LineSink is where the session's human-readable output goes.
type LineSink interface {
	// Prompt announces that a line of input is expected.
	Prompt()
	// Reply shows assistant text.
	Reply(text string)
	// ToolCall shows a tool invocation before it runs; args is its JSON encoding.
	ToolCall(name, args string)
}
