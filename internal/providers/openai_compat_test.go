package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func chatHandler(finish string, content string, toolCalls []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := map[string]any{
			"role":    "assistant",
			"content": content,
		}
		if len(toolCalls) > 0 {
			msg["tool_calls"] = toolCalls
		}
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"message":       msg,
				"finish_reason": finish,
			}},
			"usage": map[string]any{
				"prompt_tokens":     10,
				"completion_tokens": 5,
				"total_tokens":      15,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestNewOpenAICompatProvider(t *testing.T) {
	p := NewOpenAICompatProvider("test-key", "https://api.example.com/v1", "gpt-4o")
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
	if p.defaultModel != "gpt-4o" {
		t.Errorf("defaultModel = %q, want %q", p.defaultModel, "gpt-4o")
	}
}

func TestResolveModel(t *testing.T) {
	p := NewOpenAICompatProviderFromSpec(&ProviderSpec{
		ModelPrefix:  "openrouter/",
		SkipPrefixes: []string{"openrouter/"},
	}, "key", "https://example.com")
	if got := p.resolveModel("gpt-4o"); got != "openrouter/gpt-4o" {
		t.Errorf("resolveModel = %q", got)
	}
	if got := p.resolveModel("openrouter/x"); got != "openrouter/x" {
		t.Errorf("resolveModel = %q", got)
	}
}

func TestOpenAIChat_TextResponse(t *testing.T) {
	srv := httptest.NewServer(chatHandler("stop", "Hello!", nil))
	defer srv.Close()

	p := NewOpenAICompatProvider("test-key", srv.URL, "gpt-4o")
	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != StopEndTurn {
		t.Errorf("StopReason = %q, want end_turn", resp.StopReason)
	}
	text, ok := resp.FirstText()
	if !ok || text != "Hello!" {
		t.Errorf("FirstText = %q, %v", text, ok)
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 5 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
}

func TestOpenAIChat_ToolCallResponse(t *testing.T) {
	srv := httptest.NewServer(chatHandler("tool_calls", "", []map[string]any{{
		"id":   "call_1",
		"type": "function",
		"function": map[string]any{
			"name":      "get_stock_price",
			"arguments": `{"symbol":"AAPL"}`,
		},
	}}))
	defer srv.Close()

	p := NewOpenAICompatProvider("test-key", srv.URL, "gpt-4o")
	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "price?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != StopToolUse {
		t.Errorf("StopReason = %q, want tool_use", resp.StopReason)
	}
	tu, ok := resp.FirstToolUse()
	if !ok {
		t.Fatal("expected a tool_use block")
	}
	if tu.ID != "call_1" || tu.Name != "get_stock_price" || string(tu.Input) != `{"symbol":"AAPL"}` {
		t.Errorf("unexpected block: %+v", tu)
	}
}

func TestOpenAIChat_InvalidArgumentsStayJSON(t *testing.T) {
	srv := httptest.NewServer(chatHandler("tool_calls", "", []map[string]any{{
		"id":       "call_1",
		"type":     "function",
		"function": map[string]any{"name": "get_stock_price", "arguments": `{broken`},
	}}))
	defer srv.Close()

	p := NewOpenAICompatProvider("test-key", srv.URL, "gpt-4o")
	resp, err := p.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tu, _ := resp.FirstToolUse()
	if !json.Valid(tu.Input) {
		t.Errorf("expected valid JSON input, got %s", tu.Input)
	}
}

func TestOpenAIChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAICompatProvider("test-key", srv.URL, "gpt-4o")
	if _, err := p.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestToOpenAIMessages_ToolRound(t *testing.T) {
	out := toOpenAIMessages([]Message{
		{Role: RoleUser, Content: "question"},
		{Role: RoleAssistant, Blocks: []ContentBlock{
			ToolUseBlock("call_1", "get_stock_price", json.RawMessage(`{"symbol":""}`)),
		}},
		{Role: RoleUser, Blocks: []ContentBlock{
			ToolResultBlock("call_1", "stock symbol is required", true),
		}},
	})
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	if len(out[1].ToolCalls) != 1 || out[1].ToolCalls[0].ID != "call_1" {
		t.Errorf("unexpected assistant tool calls: %+v", out[1].ToolCalls)
	}
	if out[2].Role != "tool" || out[2].ToolCallID != "call_1" {
		t.Errorf("unexpected tool message: %+v", out[2])
	}
	if out[2].Content != "Error: stock symbol is required" {
		t.Errorf("Content = %q", out[2].Content)
	}
}

func TestMapFinishReason(t *testing.T) {
	cases := map[string]string{
		"tool_calls":     StopToolUse,
		"stop":           StopEndTurn,
		"length":         StopMaxTokens,
		"content_filter": "content_filter",
	}
	for in, want := range cases {
		if got := mapFinishReason(openai.FinishReason(in)); got != want {
			t.Errorf("mapFinishReason(%q) = %q, want %q", in, got, want)
		}
	}
}
