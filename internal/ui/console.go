package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coopco/toolcall/internal/agent"
	"github.com/coopco/toolcall/internal/providers"
	"github.com/coopco/toolcall/internal/tools"
)

const ruleWidth = 50

// Console prints run progress and the final answer in human-readable form.
// Styling is dropped automatically when w is not a terminal.
type Console struct {
	w       io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
	errText lipgloss.Style
	rule    lipgloss.Style
}

var _ agent.Observer = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		label:   r.NewStyle().Foreground(lipgloss.Color("62")),
		errText: r.NewStyle().Foreground(lipgloss.Color("196")),
		rule:    r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (c *Console) Response(round int, resp *providers.ChatResponse) {
	title := "Response:"
	if round == 0 {
		title = "Initial Response:"
	}
	fmt.Fprintf(c.w, "\n%s\n", c.heading.Render(title))
	fmt.Fprintf(c.w, "%s %s\n", c.label.Render("Stop Reason:"), resp.StopReason)
	fmt.Fprintf(c.w, "%s %s\n", c.label.Render("Content:"), prettyJSON(resp.Content))
}

func (c *Console) ToolCall(call providers.ContentBlock) {
	fmt.Fprintf(c.w, "\n%s %s\n", c.heading.Render("Tool Used:"), call.Name)
	fmt.Fprintln(c.w, c.label.Render("Tool Input:"))
	fmt.Fprintln(c.w, prettyJSON(call.Input))
}

func (c *Console) ToolResult(_ providers.ContentBlock, result tools.ToolCallResult) {
	fmt.Fprintf(c.w, "\n%s\n", c.heading.Render("Tool Result:"))
	if result.IsError {
		fmt.Fprintln(c.w, c.errText.Render(result.Value))
		return
	}
	fmt.Fprintln(c.w, result.Value)
}

func (c *Console) ExtraToolCalls(ignored []providers.ContentBlock) {
	names := make([]string, len(ignored))
	for i, b := range ignored {
		names[i] = b.Name
	}
	fmt.Fprintf(c.w, "\n%s %s\n", c.label.Render("Not executed (only the first tool call is handled):"), strings.Join(names, ", "))
}

// Final prints the framed final answer.
func (c *Console) Final(res *agent.Result) {
	answer := "<none>"
	if res.HasAnswer {
		answer = res.Answer
	}
	line := c.rule.Render(strings.Repeat("=", ruleWidth))
	fmt.Fprintf(c.w, "\n%s\n", line)
	fmt.Fprintf(c.w, "%s %s\n", c.heading.Render("Final Response:"), answer)
	fmt.Fprintln(c.w, line)
}

// Tools prints the advertised tool descriptors as indented JSON.
func (c *Console) Tools(defs []providers.ToolDescriptor) {
	fmt.Fprintln(c.w, prettyJSON(defs))
}

func prettyJSON(v any) string {
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return string(raw)
		}
		v = decoded
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
