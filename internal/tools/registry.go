package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/coopco/toolcall/internal/providers"
)

type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// DefaultRegistry returns a registry holding the built-in tools.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewStockPriceTool())
	return r
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve runs the named tool. It fails with ErrUnknownTool when name is not
// registered; handler errors are returned unchanged and a handler panic is
// reported as an error.
func (r *Registry) Resolve(ctx context.Context, name string, input json.RawMessage) (result string, err error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s (available: %s)", ErrUnknownTool, name, strings.Join(r.Names(), ", "))
	}
	defer func() {
		if p := recover(); p != nil {
			result, err = "", fmt.Errorf("tool %s panicked: %v", name, p)
		}
	}()
	return t.Execute(ctx, input)
}

// Call is Resolve with any failure folded into an error result.
func (r *Registry) Call(ctx context.Context, name string, input json.RawMessage) ToolCallResult {
	value, err := r.Resolve(ctx, name, input)
	if err != nil {
		return ToolCallResult{Value: err.Error(), IsError: true}
	}
	return ToolCallResult{Value: value}
}

// Descriptors lists the tools in name order, ready to advertise to a model.
func (r *Registry) Descriptors() []providers.ToolDescriptor {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]providers.ToolDescriptor, 0, len(names))
	for _, n := range names {
		t := r.tools[n]
		defs = append(defs, providers.ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		})
	}
	return defs
}
