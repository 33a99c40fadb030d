// Package runner drives one console session: it reads user lines, queries the
// completion gateway with the full conversation, and dispatches the tool
// requests the model makes until it answers without any.
//
// Invariant:
//   - every tool request is answered by exactly one result turn, appended in
//     request order before the model is queried again.
//
// Flow:
//
//	user(text) -> assistant(tool requests) -> tool(result)... -> assistant(text)
package runner
