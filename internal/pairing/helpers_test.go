package pairing_test

import "github.com/petasbytes/toolloop/memory"

func User(s string) memory.Turn { return memory.UserTurn(s) }

func Asst(text string, ids ...string) memory.Turn {
	reqs := make([]memory.ToolRequest, 0, len(ids))
	for _, id := range ids {
		reqs = append(reqs, memory.ToolRequest{ID: id, Name: "read_file", Arguments: map[string]any{"path": "a.txt"}})
	}
	return memory.AssistantTurn(text, reqs...)
}

func TR(id, content string) memory.Turn { return memory.ToolResultTurn(id, "read_file", content, false) }
