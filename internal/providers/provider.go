package providers

import (
	"context"
	"encoding/json"
)

// Provider is the LLM provider interface
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Stop reasons reported by providers. Values not listed here are passed through unchanged.
const (
	StopToolUse      = "tool_use"
	StopEndTurn      = "end_turn"
	StopMaxTokens    = "max_tokens"
	StopStopSequence = "stop_sequence"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens,omitempty"`
	Tools     []ToolDescriptor `json:"tools,omitempty"`
	Messages  []Message        `json:"messages"`
}

type ChatResponse struct {
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
	Usage      Usage          `json:"usage"`
}

// FirstToolUse returns the first tool_use block of the response.
func (r *ChatResponse) FirstToolUse() (ContentBlock, bool) {
	for _, b := range r.Content {
		if b.Type == BlockToolUse {
			return b, true
		}
	}
	return ContentBlock{}, false
}

// ToolUses returns every tool_use block in response order.
func (r *ChatResponse) ToolUses() []ContentBlock {
	var out []ContentBlock
	for _, b := range r.Content {
		if b.Type == BlockToolUse {
			out = append(out, b)
		}
	}
	return out
}

// FirstText returns the text of the first text block, if any.
func (r *ChatResponse) FirstText() (string, bool) {
	for _, b := range r.Content {
		if b.Type == BlockText {
			return b.Text, true
		}
	}
	return "", false
}

// ContentBlock is a tagged union; Type selects which fields are meaningful.
//
//	text:        Text
//	tool_use:    ID, Name, Input
//	tool_result: ToolUseID, Content, IsError
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

func ToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: BlockToolUse, ID: id, Name: name, Input: input}
}

func ToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolUseID: toolUseID, Content: content, IsError: isError}
}

// Message carries either plain Content or an ordered list of Blocks.
type Message struct {
	Role    string         `json:"role"` // "user", "assistant"
	Content string         `json:"content,omitempty"`
	Blocks  []ContentBlock `json:"blocks,omitempty"`
}

// ContentBlocks returns Blocks, or Content as a single text block.
func (m Message) ContentBlocks() []ContentBlock {
	if len(m.Blocks) > 0 {
		return m.Blocks
	}
	return []ContentBlock{TextBlock(m.Content)}
}

// ToolDescriptor describes a tool advertised to the model.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"` // JSON Schema
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add returns the element-wise sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}
