package providers

import (
	"fmt"
	"strings"
)

// API families a provider can speak.
const (
	APIAnthropic = "anthropic"
	APIOpenAI    = "openai"
)

type ProviderSpec struct {
	Name           string
	API            string   // APIAnthropic or APIOpenAI
	Keywords       []string // model name keywords for matching
	EnvKey         string   // environment variable for API key
	DefaultAPIBase string   // default base URL
	DefaultModel   string
	IsLocal        bool     // local inference (Ollama), no API key needed
	ModelPrefix    string   // prefix to add to model name
	SkipPrefixes   []string // prefixes to skip when adding ModelPrefix
}

// Providers is the registry of known LLM providers. Gateways come first so a
// gateway model name like "openrouter/anthropic/claude" is not taken for a
// direct vendor.
var Providers = []ProviderSpec{
	{Name: "openrouter", API: APIOpenAI, Keywords: []string{"openrouter"}, EnvKey: "OPENROUTER_API_KEY", DefaultAPIBase: "https://openrouter.ai/api/v1"},
	{Name: "anthropic", API: APIAnthropic, Keywords: []string{"claude", "anthropic"}, EnvKey: "ANTHROPIC_API_KEY", DefaultModel: defaultAnthropicModel},
	{Name: "openai", API: APIOpenAI, Keywords: []string{"gpt", "o1", "o3", "chatgpt"}, EnvKey: "OPENAI_API_KEY", DefaultModel: "gpt-4o"},
	{Name: "deepseek", API: APIOpenAI, Keywords: []string{"deepseek"}, EnvKey: "DEEPSEEK_API_KEY", DefaultAPIBase: "https://api.deepseek.com/v1", DefaultModel: "deepseek-chat"},
	{Name: "groq", API: APIOpenAI, Keywords: []string{"groq"}, EnvKey: "GROQ_API_KEY", DefaultAPIBase: "https://api.groq.com/openai/v1"},
	{Name: "mistral", API: APIOpenAI, Keywords: []string{"mistral", "mixtral"}, EnvKey: "MISTRAL_API_KEY", DefaultAPIBase: "https://api.mistral.ai/v1"},
	{Name: "ollama", API: APIOpenAI, Keywords: []string{"ollama"}, DefaultAPIBase: "http://localhost:11434/v1", IsLocal: true},
}

// FindByModel matches model name against Keywords, returns first match.
func FindByModel(model string) *ProviderSpec {
	lower := strings.ToLower(model)
	for i := range Providers {
		for _, kw := range Providers[i].Keywords {
			if strings.Contains(lower, kw) {
				return &Providers[i]
			}
		}
	}
	return nil
}

// FindByName returns the provider spec with an exact name match.
func FindByName(name string) *ProviderSpec {
	for i := range Providers {
		if Providers[i].Name == name {
			return &Providers[i]
		}
	}
	return nil
}

// Resolve picks a spec by explicit name first, then by model keyword, and
// falls back to anthropic.
func Resolve(name, model string) (*ProviderSpec, error) {
	if name != "" {
		spec := FindByName(name)
		if spec == nil {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		return spec, nil
	}
	if spec := FindByModel(model); spec != nil {
		return spec, nil
	}
	return FindByName("anthropic"), nil
}

// New builds the Provider for spec.
func New(spec *ProviderSpec, apiKey, baseURL string) (Provider, error) {
	switch spec.API {
	case APIAnthropic:
		return NewAnthropicProvider(apiKey, baseURL), nil
	case APIOpenAI:
		return NewOpenAICompatProviderFromSpec(spec, apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("provider %q: unsupported API %q", spec.Name, spec.API)
	}
}
