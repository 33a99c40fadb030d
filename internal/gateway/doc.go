// Package gateway sends a conversation and the available tool descriptors to a
// completion service and maps the reply back to a single assistant turn.
//
// Two backends are provided: Anthropic (Messages API) and OpenAI, which talks to
// any OpenAI-compatible chat completions endpoint such as a local Ollama server.
// Requests are never streamed.
package gateway
