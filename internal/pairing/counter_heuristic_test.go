package pairing_test

import (
	"testing"

	"github.com/petasbytes/toolloop/internal/pairing"
	"github.com/petasbytes/toolloop/memory"
)

func TestHeuristicCounter_CountsRunes(t *testing.T) {
	h := pairing.HeuristicCounter{}
	overhead := h.CountTurn(User(""))
	if overhead <= 0 {
		t.Fatalf("expected positive overhead, got %d", overhead)
	}
	// "héllo" = 5 runes, "👍" = 1 rune
	if got, want := h.CountTurn(User("héllo👍")), 6+overhead; got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_ToolRequests(t *testing.T) {
	h := pairing.HeuristicCounter{}
	overhead := h.CountTurn(User(""))
	turn := memory.AssistantTurn("", memory.ToolRequest{ID: "t1", Name: "ls", Arguments: map[string]any{"p": "x"}})
	// name "ls" = 2, {"p":"x"} = 9
	if got, want := h.CountTurn(turn), overhead+2+overhead+9; got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_Deterministic(t *testing.T) {
	h := pairing.HeuristicCounter{}
	turns := []memory.Turn{Asst("x", "t1"), TR("t1", "abc")}
	g := pairing.Group{Kind: pairing.GroupExchange, Start: 0, End: 2}
	a, b := h.CountGroup(g, turns), h.CountGroup(g, turns)
	if a != b {
		t.Fatalf("non-deterministic: %d vs %d", a, b)
	}
	if want := h.CountTurn(turns[0]) + h.CountTurn(turns[1]); a != want {
		t.Fatalf("group=%d want sum=%d", a, want)
	}
}
