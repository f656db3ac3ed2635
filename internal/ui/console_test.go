package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/coopco/toolcall/internal/agent"
	"github.com/coopco/toolcall/internal/providers"
	"github.com/coopco/toolcall/internal/tools"
)

func TestConsoleResponseHeadings(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	resp := &providers.ChatResponse{
		StopReason: providers.StopToolUse,
		Content:    []providers.ContentBlock{providers.ToolUseBlock("tu_1", "get_stock_price", json.RawMessage(`{"symbol":"AAPL"}`))},
	}
	c.Response(0, resp)
	c.Response(1, resp)

	out := buf.String()
	if !strings.Contains(out, "Initial Response:") {
		t.Errorf("missing initial heading:\n%s", out)
	}
	if strings.Count(out, "Response:") != 2 {
		t.Errorf("expected two response headings:\n%s", out)
	}
	if !strings.Contains(out, "Stop Reason: tool_use") {
		t.Errorf("missing stop reason:\n%s", out)
	}
	if !strings.Contains(out, `"symbol": "AAPL"`) {
		t.Errorf("content should be pretty JSON:\n%s", out)
	}
}

func TestConsoleToolEvents(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	call := providers.ToolUseBlock("tu_1", "get_stock_price", json.RawMessage(`{"symbol":"AAPL"}`))
	c.ToolCall(call)
	c.ToolResult(call, tools.ToolCallResult{Value: "$198.53 USD"})

	out := buf.String()
	for _, want := range []string{"Tool Used: get_stock_price", "Tool Input:", `"symbol": "AAPL"`, "Tool Result:", "$198.53 USD"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestConsoleFinal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Final(&agent.Result{Answer: "It is $198.53.", HasAnswer: true})
	out := buf.String()
	if !strings.Contains(out, "Final Response: It is $198.53.") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Count(out, strings.Repeat("=", 50)) != 2 {
		t.Errorf("expected two rules:\n%s", out)
	}

	buf.Reset()
	c.Final(&agent.Result{})
	if !strings.Contains(buf.String(), "Final Response: <none>") {
		t.Errorf("absent answer should print <none>:\n%s", buf.String())
	}
}

func TestConsoleExtraToolCalls(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).ExtraToolCalls([]providers.ContentBlock{{Type: providers.BlockToolUse, Name: "a"}, {Type: providers.BlockToolUse, Name: "b"}})
	if !strings.Contains(buf.String(), "a, b") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
