package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"yolearn/internal/config"
	"yolearn/internal/llm"
	"yolearn/internal/logging"
	"yolearn/internal/orchestrator"
	"yolearn/internal/planner"
	"yolearn/internal/profile"
	serverhttp "yolearn/internal/server/http"
	jsonx "yolearn/internal/shared/json"
	"yolearn/internal/toolregistry"
	"yolearn/pkg/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// isTTY checks if the current environment has a TTY available
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "yolearn",
		Short: "YoLearn tutoring orchestrator",
		Long: "YoLearn routes a student's message to the right learning tool:\n" +
			"note maker, flashcard generator or concept explainer.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().String("model", "", "LLM model override")
	root.PersistentFlags().String("provider", "", "LLM provider (openai, heuristic)")

	viper.SetEnvPrefix("YOLEARN")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("model", root.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("provider", root.PersistentFlags().Lookup("provider"))

	root.AddCommand(newServeCmd())
	root.AddCommand(newAskCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// loadConfig resolves the runtime config, then applies CLI overrides.
func loadConfig() (*config.RuntimeConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("model"); v != "" {
		cfg.LLMModel = v
		cfg.Sources["llm_model"] = config.SourceOverride
	}
	if v := viper.GetString("provider"); v != "" {
		cfg.LLMProvider = v
		cfg.Sources["llm_provider"] = config.SourceOverride
	}
	if viper.GetBool("verbose") {
		cfg.Verbose = true
		cfg.Sources["verbose"] = config.SourceOverride
	}
	if cfg.Verbose {
		logging.SetLevel(logging.DEBUG)
	}
	return cfg, nil
}

// buildOrchestrator assembles the full turn pipeline from runtime config.
func buildOrchestrator(cfg *config.RuntimeConfig, logger logging.Logger) (*orchestrator.Orchestrator, error) {
	registry, err := toolregistry.NewRegistry(toolregistry.Config{
		ResultCache: toolregistry.CacheConfig{
			Enabled: cfg.ToolCacheSize > 0,
			MaxSize: cfg.ToolCacheSize,
			TTL:     cfg.ToolCacheTTL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tool registry: %w", err)
	}

	profileProvider := profile.NewMockProvider()
	fallback := planner.NewHeuristic(profileProvider)

	var model orchestrator.Planner
	if client := newLLMClient(cfg, logger); client != nil {
		model = planner.NewModel(planner.ModelConfig{
			Client:    client,
			Registry:  registry,
			Profile:   profileProvider,
			Timeout:   cfg.LLMTimeout,
			CacheSize: cfg.PlanCacheSize,
			CacheTTL:  cfg.PlanCacheTTL,
			Logger:    logger,
		})
	}

	return orchestrator.New(orchestrator.Config{
		Registry: registry,
		Model:    model,
		Fallback: fallback,
		Logger:   logger,
	}), nil
}

// newLLMClient returns nil when no model planner can be configured, which
// leaves the orchestrator running on the heuristic planner alone.
func newLLMClient(cfg *config.RuntimeConfig, logger logging.Logger) llm.Client {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.APIKey == "" {
			logger.Warn("no API key configured, planning with heuristics only")
			return nil
		}
		return llm.NewOpenAIClient(llm.Config{
			Model:   cfg.LLMModel,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.LLMTimeout,
		})
	case "heuristic", "":
		return nil
	default:
		logger.Warn("unknown provider %q, planning with heuristics only", cfg.LLMProvider)
		return nil
	}
}

func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestrator HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Host = host
			}
			if port > 0 {
				cfg.Port = port
			}

			logger := logging.NewComponentLogger("Server")
			orch, err := buildOrchestrator(cfg, logger)
			if err != nil {
				return err
			}

			server := serverhttp.NewServer(
				serverhttp.NewAPIHandler(orch, logger),
				serverhttp.ServerConfig{
					Host:       cfg.Host,
					Port:       cfg.Port,
					Debug:      cfg.Verbose,
					EnableCORS: true,
				},
				logger,
			)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()
			fmt.Printf("%s http://%s\n", green("Listening on"), server.Addr())

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				fmt.Printf("\n%s %v\n", yellow("Received"), sig)
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					return err
				}
				return <-errCh
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	return cmd
}

func newAskCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Run a single message through the orchestrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" && !isTTY() {
				scanner := bufio.NewScanner(os.Stdin)
				if scanner.Scan() {
					message = strings.TrimSpace(scanner.Text())
				}
			}
			if message == "" {
				return fmt.Errorf("message is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := logging.NewComponentLogger("CLI")
			orch, err := buildOrchestrator(cfg, logger)
			if err != nil {
				return err
			}

			result := orch.RunTurn(cmd.Context(), message)
			if asJSON {
				data, err := jsonx.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full turn result as JSON")
	return cmd
}

func printResult(result *types.TurnResult) {
	fmt.Println(bold(result.FinalResponse))
	if result.ToolName != "" {
		fmt.Printf("%s %s\n", gray("tool:"), cyan(result.ToolName))
	}
	fmt.Printf("%s %s\n", gray("status:"), statusColor(result.Status))
	if result.FallbackUsed {
		fmt.Println(gray("planned by heuristic fallback"))
	}
	if result.Error != "" {
		fmt.Printf("%s %s\n", gray("error:"), red(result.Error))
	}
}

func statusColor(status types.TurnStatus) string {
	switch status {
	case types.StatusSuccess:
		return green(string(status))
	case types.StatusNoTool:
		return yellow(string(status))
	default:
		return red(string(status))
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration with value sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.APIKey != "" {
				shown.APIKey = "***"
			}
			data, err := jsonx.MarshalIndent(shown, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			for field, source := range cfg.Sources {
				fmt.Printf("%s %s=%s\n", gray("source:"), field, string(source))
			}
			return nil
		},
	}
}
