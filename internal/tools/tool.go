package tools

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrInvalidArgument marks tool input that fails a handler's validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownTool is returned when no tool is registered under the requested name.
	ErrUnknownTool = errors.New("unknown tool")
)

// Tool is the interface all tools must implement
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage // JSON Schema
	Execute(ctx context.Context, input json.RawMessage) (string, error)
}

// ToolCallResult is the outcome of a tool call as sent back to the model.
type ToolCallResult struct {
	Value   string
	IsError bool
}
