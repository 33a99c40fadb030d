// Package pairing checks the request/result structure of a conversation before
// it is sent to the completion service, and estimates its size.
//
// An exchange is an assistant turn carrying tool requests followed immediately by
// one tool-result turn per request, in request order. Everything else is a singleton.
package pairing
