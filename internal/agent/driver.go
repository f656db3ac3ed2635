package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coopco/toolcall/internal/providers"
	"github.com/coopco/toolcall/internal/tools"
)

const defaultMaxToolRounds = 10

var (
	// ErrTransport wraps any failure of the model service call. It is not retried.
	ErrTransport = errors.New("model service call failed")
	// ErrTooManyToolRounds is returned when the model keeps requesting tools.
	ErrTooManyToolRounds = errors.New("too many tool rounds")
)

// Observer receives progress events from a Driver run.
type Observer interface {
	// Response is called for every model response; round 0 is the initial one.
	Response(round int, resp *providers.ChatResponse)
	ToolCall(call providers.ContentBlock)
	ToolResult(call providers.ContentBlock, result tools.ToolCallResult)
	// ExtraToolCalls reports tool_use blocks beyond the first, which are not executed.
	ExtraToolCalls(ignored []providers.ContentBlock)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) Response(int, *providers.ChatResponse) {}
func (NopObserver) ToolCall(providers.ContentBlock) {}
func (NopObserver) ToolResult(providers.ContentBlock, tools.ToolCallResult) {}
func (NopObserver) ExtraToolCalls([]providers.ContentBlock) {}

// Driver runs one prompt through the model, resolving tool calls until the
// model stops asking for them.
type Driver struct {
	provider      providers.Provider
	tools         *tools.Registry
	model         string
	maxTokens     int
	maxToolRounds int
	observer      Observer
	logger        *slog.Logger
}

// DriverConfig holds all dependencies and settings for Driver.
type DriverConfig struct {
	Provider      providers.Provider
	Tools         *tools.Registry
	Model         string
	MaxTokens     int
	MaxToolRounds int
	Observer      Observer
	Logger        *slog.Logger
}

// Result is the outcome of a completed run.
type Result struct {
	Answer     string
	HasAnswer  bool // false when the final response carried no text block
	StopReason string
	ToolRounds int
	Usage      providers.Usage
}

// NewDriver creates a Driver from the given config.
func NewDriver(cfg DriverConfig) *Driver {
	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}
	reg := cfg.Tools
	if reg == nil {
		reg = tools.NewRegistry()
	}
	obs := cfg.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		provider:      cfg.Provider,
		tools:         reg,
		model:         cfg.Model,
		maxTokens:     cfg.MaxTokens,
		maxToolRounds: maxRounds,
		observer:      obs,
		logger:        logger,
	}
}

// Run sends prompt with the registry's tools advertised. While the model
// stops with tool_use, the first tool_use block is resolved and the
// conversation is rebuilt as [prompt, assistant response, tool_result] and
// sent again without tools. Tool failures go back to the model as error
// results; provider failures end the run.
func (d *Driver) Run(ctx context.Context, prompt string) (*Result, error) {
	log := d.logger.With("run_id", uuid.NewString())
	userMsg := providers.Message{Role: providers.RoleUser, Content: prompt}

	resp, err := d.chat(ctx, providers.ChatRequest{
		Model:     d.model,
		MaxTokens: d.maxTokens,
		Tools:     d.tools.Descriptors(),
		Messages:  []providers.Message{userMsg},
	})
	if err != nil {
		return nil, err
	}
	log.Debug("initial response", "stop_reason", resp.StopReason, "blocks", len(resp.Content))
	d.observer.Response(0, resp)
	usage := resp.Usage

	rounds := 0
	for resp.StopReason == providers.StopToolUse {
		call, ok := resp.FirstToolUse()
		if !ok {
			log.Warn("tool_use stop reason without a tool_use block")
			break
		}
		if rounds == d.maxToolRounds {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyToolRounds, d.maxToolRounds)
		}
		rounds++

		if calls := resp.ToolUses(); len(calls) > 1 {
			log.Warn("only the first tool call is executed", "ignored", len(calls)-1)
			d.observer.ExtraToolCalls(calls[1:])
		}

		d.observer.ToolCall(call)
		log.Debug("executing tool", "name", call.Name, "id", call.ID)
		result := d.tools.Call(ctx, call.Name, call.Input)
		if result.IsError {
			log.Info("tool call failed", "name", call.Name, "err", result.Value)
		}
		d.observer.ToolResult(call, result)

		resp, err = d.chat(ctx, providers.ChatRequest{
			Model:     d.model,
			MaxTokens: d.maxTokens,
			Messages:  followUp(userMsg, resp, call, result),
		})
		if err != nil {
			return nil, err
		}
		log.Debug("response", "round", rounds, "stop_reason", resp.StopReason)
		d.observer.Response(rounds, resp)
		usage = usage.Add(resp.Usage)
	}

	answer, ok := resp.FirstText()
	return &Result{
		Answer:     answer,
		HasAnswer:  ok,
		StopReason: resp.StopReason,
		ToolRounds: rounds,
		Usage:      usage,
	}, nil
}

func (d *Driver) chat(ctx context.Context, req providers.ChatRequest) (*providers.ChatResponse, error) {
	resp, err := d.provider.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrTransport)
	}
	return resp, nil
}

// followUp builds the next request's messages. Only the current round is
// carried; earlier tool rounds are not part of the history.
func followUp(userMsg providers.Message, resp *providers.ChatResponse, call providers.ContentBlock, result tools.ToolCallResult) []providers.Message {
	assistant := make([]providers.ContentBlock, len(resp.Content))
	copy(assistant, resp.Content)
	return []providers.Message{
		userMsg,
		{Role: providers.RoleAssistant, Blocks: assistant},
		{Role: providers.RoleUser, Blocks: []providers.ContentBlock{
			providers.ToolResultBlock(call.ID, result.Value, result.IsError),
		}},
	}
}
