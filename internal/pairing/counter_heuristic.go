package pairing

import (
	"encoding/json"
	"log/slog"
	"unicode/utf8"

	"github.com/petasbytes/toolloop/memory"
)

// TokenCounter estimates input-token cost for turns or groups.
type TokenCounter interface {
	CountTurn(t memory.Turn) int
	CountGroup(g Group, all []memory.Turn) int
}

// HeuristicCounter is the default deterministic estimator.
// Rules:
//   - content: rune count
//   - tool requests: runes of the name plus the encoded arguments
//   - a fixed overhead per turn and per request
type HeuristicCounter struct{}

// Fixed per-block overhead for deterministic counts; changing this requires updating the tests.
const blockOverhead = 4

func (HeuristicCounter) CountTurn(t memory.Turn) int {
	total := utf8.RuneCountInString(t.Content) + blockOverhead
	for _, r := range t.ToolRequests {
		total += utf8.RuneCountInString(r.Name) + blockOverhead
		if len(r.Arguments) > 0 {
			if b, err := json.Marshal(r.Arguments); err == nil {
				total += utf8.RuneCount(b)
			} else {
				slog.Debug("pairing: unencodable arguments, counting overhead only", "id", r.ID)
			}
		}
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []memory.Turn) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountTurn(all[i])
	}
	return total
}
