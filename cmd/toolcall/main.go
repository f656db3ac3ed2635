package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coopco/toolcall/internal/agent"
	"github.com/coopco/toolcall/internal/config"
	"github.com/coopco/toolcall/internal/providers"
	"github.com/coopco/toolcall/internal/tools"
	"github.com/coopco/toolcall/internal/ui"
)

type options struct {
	configPath string
	provider   string
	model      string
	prompt     string
	maxTokens  int
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "toolcall",
		Short:         "Ask a model a question and resolve the tool calls it makes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(stderr, cfg.Log.Level))

			spec, err := cfg.ProviderSpec()
			if err != nil {
				return err
			}
			provider, err := providers.New(spec, cfg.Provider.APIKey, cfg.Provider.BaseURL)
			if err != nil {
				return err
			}
			return run(cmd.Context(), provider, cfg, ui.NewConsole(stdout))
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.toolcall/config.json)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.Flags().StringVar(&opts.provider, "provider", "", "provider name (default: inferred from model)")
	root.Flags().StringVarP(&opts.model, "model", "m", "", "model identifier")
	root.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "user message to send")
	root.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "maximum output tokens per request")

	root.AddCommand(newToolsCmd(stdout))
	return root
}

func newToolsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tools advertised to the model",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ui.NewConsole(stdout).Tools(tools.DefaultRegistry().Descriptors())
		},
	}
}

// run executes one conversation and prints the final answer.
func run(ctx context.Context, provider providers.Provider, cfg *config.Config, console *ui.Console) error {
	driver := agent.NewDriver(agent.DriverConfig{
		Provider:      provider,
		Tools:         tools.DefaultRegistry(),
		Model:         cfg.Agent.Model,
		MaxTokens:     cfg.Agent.MaxTokens,
		MaxToolRounds: cfg.Agent.MaxToolRounds,
		Observer:      console,
		Logger:        slog.Default(),
	})
	res, err := driver.Run(ctx, cfg.Agent.Prompt)
	if err != nil {
		return err
	}
	console.Final(res)
	return nil
}

func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider.Name = opts.provider
	}
	if flags.Changed("model") {
		cfg.Agent.Model = opts.model
	}
	if flags.Changed("prompt") {
		cfg.Agent.Prompt = opts.prompt
	}
	if flags.Changed("max-tokens") {
		cfg.Agent.MaxTokens = opts.maxTokens
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	cfg.FillAPIKey()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
