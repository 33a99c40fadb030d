// Package memory holds the conversation log for a single session.
//
// The store is append-only and lives for the duration of the process:
//   - turns are validated on append and never mutated or removed afterwards.
//   - a tool result must answer a pending request of the latest assistant turn.
package memory
