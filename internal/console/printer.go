package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// ANSI bright palette.
const (
	colorUser  = lipgloss.Color("12")
	colorAgent = lipgloss.Color("11")
	colorTool  = lipgloss.Color("10")
)

// Printer writes prompts, replies and tool lines to w. Colors are dropped
// automatically when w is not a terminal.
type Printer struct {
	w     io.Writer
	user  lipgloss.Style
	agent lipgloss.Style
	tool  lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		user:  r.NewStyle().Foreground(colorUser),
		agent: r.NewStyle().Foreground(colorAgent),
		tool:  r.NewStyle().Foreground(colorTool),
	}
}

func (p *Printer) Prompt() {
	fmt.Fprintf(p.w, "%s: ", p.user.Render("You"))
}

func (p *Printer) Reply(text string) {
	fmt.Fprintf(p.w, "%s: %s\n", p.agent.Render("Agent"), text)
}

func (p *Printer) ToolCall(name, args string) {
	fmt.Fprintf(p.w, "%s: %s(%s)\n", p.tool.Render("tool"), name, args)
}

// Println writes a plain line, for banners and notices.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}
