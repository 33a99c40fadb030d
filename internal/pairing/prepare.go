package pairing

import "github.com/petasbytes/toolloop/memory"

// Stats summarizes a conversation about to be sent.
type Stats struct {
	Turns           int
	Groups          int
	Exchanges       int
	EstimatedTokens int
}

// Prepare checks turns with Check and returns their stats.
// The turns themselves are always sent in full; nothing is trimmed.
func Prepare(turns []memory.Turn, c TokenCounter) (Stats, error) {
	if err := Check(turns); err != nil {
		return Stats{}, err
	}
	groups := GroupTurns(turns)
	stats := Stats{Turns: len(turns), Groups: len(groups)}
	for _, g := range groups {
		if g.Kind == GroupExchange {
			stats.Exchanges++
		}
		stats.EstimatedTokens += c.CountGroup(g, turns)
	}
	return stats, nil
}
