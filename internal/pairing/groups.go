package pairing

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/petasbytes/toolloop/memory"
)

// GroupKind denotes the atomic unit type of a conversation.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupExchange
)

// Group describes a contiguous span of turns [Start, End) in the original slice.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into turns
	End   int // exclusive index into turns
}

var (
	ErrIncompleteExchange = errors.New("pairing: tool requests without matching results")
	ErrOrphanResult       = errors.New("pairing: tool result outside an exchange")
)

// GroupTurns splits turns into exchanges and singletons.
// An assistant turn whose requests are not all answered by the following turns,
// in order, is left as a singleton and its results become singletons too.
func GroupTurns(turns []memory.Turn) []Group {
	groups := make([]Group, 0, len(turns))
	for i := 0; i < len(turns); {
		t := turns[i]
		if t.Role == memory.RoleAssistant && len(t.ToolRequests) > 0 {
			n, reason := answeredInOrder(t, turns[i+1:])
			if reason == "" {
				groups = append(groups, Group{Kind: GroupExchange, Start: i, End: i + 1 + n})
				i += 1 + n
				continue
			}
			slog.Debug("pairing: exclude exchange", "reason", reason, "idx", i)
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// answeredInOrder reports how many of rest are the results for a's requests.
// reason is empty when every request is answered once, in request order.
func answeredInOrder(a memory.Turn, rest []memory.Turn) (n int, reason string) {
	for j, req := range a.ToolRequests {
		if j >= len(rest) || rest[j].Role != memory.RoleTool {
			return j, "missing_results"
		}
		if rest[j].ToolCallID != req.ID {
			return j, "order_mismatch"
		}
	}
	return len(a.ToolRequests), ""
}

// Check verifies that every exchange is complete and no tool result stands alone.
func Check(turns []memory.Turn) error {
	for _, g := range GroupTurns(turns) {
		if g.Kind == GroupExchange {
			continue
		}
		t := turns[g.Start]
		switch {
		case t.Role == memory.RoleAssistant && len(t.ToolRequests) > 0:
			return fmt.Errorf("%w: assistant turn %d", ErrIncompleteExchange, g.Start)
		case t.Role == memory.RoleTool:
			return fmt.Errorf("%w: turn %d (call %q)", ErrOrphanResult, g.Start, t.ToolCallID)
		}
	}
	return nil
}
