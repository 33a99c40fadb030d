package memory

import (
	"errors"
	"fmt"
	"slices"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolRequest is a model-issued instruction to invoke a tool.
type ToolRequest struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Turn is one entry in the conversation log.
// ToolRequests is only set on assistant turns; ToolCallID, ToolName and IsError
// only on tool turns.
type Turn struct {
	Role         Role          `json:"role"`
	Content      string        `json:"content,omitempty"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
	ToolCallID   string        `json:"tool_call_id,omitempty"`
	ToolName     string        `json:"tool_name,omitempty"`
	IsError      bool          `json:"is_error,omitempty"`
}

func UserTurn(text string) Turn { return Turn{Role: RoleUser, Content: text} }

func AssistantTurn(text string, reqs ...ToolRequest) Turn {
	return Turn{Role: RoleAssistant, Content: text, ToolRequests: reqs}
}

func ToolResultTurn(callID, name, content string, isErr bool) Turn {
	return Turn{Role: RoleTool, ToolCallID: callID, ToolName: name, Content: content, IsError: isErr}
}

var (
	ErrInvalidTurn     = errors.New("memory: invalid turn")
	ErrUnknownToolCall = errors.New("memory: tool result does not answer a pending request")
	ErrDuplicateResult = errors.New("memory: tool request already answered")
	ErrPendingResults  = errors.New("memory: tool requests still awaiting results")
)

// Store is the ordered, append-only conversation log.
// It is owned by a single controller and is not safe for concurrent use.
type Store struct {
	turns []Turn
	// ids of the latest assistant turn's requests that have no result yet
	pending []string
	// ids answered since the latest assistant turn
	answered map[string]struct{}
}

func NewStore() *Store {
	return &Store{answered: map[string]struct{}{}}
}

// Append validates t against the log so far and appends it.
func (s *Store) Append(t Turn) error {
	switch t.Role {
	case RoleUser:
		if len(t.ToolRequests) > 0 {
			return fmt.Errorf("%w: user turn carries tool requests", ErrInvalidTurn)
		}
		if len(s.pending) > 0 {
			return fmt.Errorf("%w: %d outstanding", ErrPendingResults, len(s.pending))
		}
	case RoleAssistant:
		if len(s.pending) > 0 {
			return fmt.Errorf("%w: %d outstanding", ErrPendingResults, len(s.pending))
		}
		seen := make(map[string]struct{}, len(t.ToolRequests))
		for _, r := range t.ToolRequests {
			// an empty name is answered at dispatch like any unknown tool
			if r.ID == "" {
				return fmt.Errorf("%w: tool request without id", ErrInvalidTurn)
			}
			if _, dup := seen[r.ID]; dup {
				return fmt.Errorf("%w: duplicate tool request id %q", ErrInvalidTurn, r.ID)
			}
			seen[r.ID] = struct{}{}
		}
	case RoleTool:
		if t.ToolCallID == "" {
			return fmt.Errorf("%w: tool result without call id", ErrInvalidTurn)
		}
		if _, done := s.answered[t.ToolCallID]; done {
			return fmt.Errorf("%w: %q", ErrDuplicateResult, t.ToolCallID)
		}
		i := slices.Index(s.pending, t.ToolCallID)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownToolCall, t.ToolCallID)
		}
		s.pending = slices.Delete(s.pending, i, i+1)
		s.answered[t.ToolCallID] = struct{}{}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidTurn, t.Role)
	}

	if t.Role == RoleAssistant {
		s.answered = map[string]struct{}{}
		s.pending = s.pending[:0]
		for _, r := range t.ToolRequests {
			s.pending = append(s.pending, r.ID)
		}
	}
	s.turns = append(s.turns, cloneTurn(t))
	return nil
}

// Turns returns a copy of the log, oldest first.
func (s *Store) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	for i, t := range s.turns {
		out[i] = cloneTurn(t)
	}
	return out
}

func (s *Store) Len() int { return len(s.turns) }

// Last returns the newest turn, if any.
func (s *Store) Last() (Turn, bool) {
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return cloneTurn(s.turns[len(s.turns)-1]), true
}

// Pending returns the request ids of the latest assistant turn still awaiting a result.
func (s *Store) Pending() []string {
	return slices.Clone(s.pending)
}

func cloneTurn(t Turn) Turn {
	if t.ToolRequests == nil {
		return t
	}
	reqs := make([]ToolRequest, len(t.ToolRequests))
	for i, r := range t.ToolRequests {
		reqs[i] = r
		if r.Arguments != nil {
			args := make(map[string]any, len(r.Arguments))
			for k, v := range r.Arguments {
				args[k] = v
			}
			reqs[i].Arguments = args
		}
	}
	t.ToolRequests = reqs
	return t
}
