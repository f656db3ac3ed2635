package providers

import (
	"testing"
)

func TestFindByModel(t *testing.T) {
	tests := []struct {
		model    string
		wantName string
	}{
		{"gpt-4o", "openai"},
		{"claude-sonnet-4-20250514", "anthropic"},
		{"deepseek-chat", "deepseek"},
		{"openrouter/anthropic/claude-3.5-sonnet", "openrouter"},
	}
	for _, tt := range tests {
		spec := FindByModel(tt.model)
		if spec == nil {
			t.Errorf("FindByModel(%q) = nil, want %q", tt.model, tt.wantName)
			continue
		}
		if spec.Name != tt.wantName {
			t.Errorf("FindByModel(%q).Name = %q, want %q", tt.model, spec.Name, tt.wantName)
		}
	}
}

func TestFindByModelUnknown(t *testing.T) {
	spec := FindByModel("totally-unknown-model-xyz")
	if spec != nil {
		t.Errorf("FindByModel(unknown) = %q, want nil", spec.Name)
	}
}

func TestResolve(t *testing.T) {
	spec, err := Resolve("", "")
	if err != nil || spec.Name != "anthropic" {
		t.Fatalf("Resolve default = %v, %v; want anthropic", spec, err)
	}
	spec, err = Resolve("groq", "claude-sonnet-4-20250514")
	if err != nil || spec.Name != "groq" {
		t.Fatalf("explicit name should win, got %v, %v", spec, err)
	}
	spec, err = Resolve("", "gpt-4o-mini")
	if err != nil || spec.Name != "openai" {
		t.Fatalf("Resolve by model = %v, %v; want openai", spec, err)
	}
	if _, err := Resolve("nope", ""); err == nil {
		t.Fatal("expected error for unknown provider name")
	}
}

func TestNew(t *testing.T) {
	p, err := New(FindByName("anthropic"), "key", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*AnthropicProvider); !ok {
		t.Errorf("expected *AnthropicProvider, got %T", p)
	}

	p, err = New(FindByName("ollama"), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*OpenAICompatProvider); !ok {
		t.Errorf("expected *OpenAICompatProvider, got %T", p)
	}

	if _, err := New(&ProviderSpec{Name: "x", API: "grpc"}, "", ""); err == nil {
		t.Fatal("expected error for unsupported API")
	}
}
