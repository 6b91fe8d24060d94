// Command scout is a conversational shopping assistant for the terminal.
// It talks to the recommendation service, walks the user through clarifying
// questions, and renders recommended products with buy links and reviews.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shopscout/cmd/scout/chat"
	"shopscout/internal/api"
	"shopscout/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	// Global flags
	verbose     bool
	configPath  string
	apiURL      string
	modelChoice string

	logger *zap.Logger
)

// rootCmd launches the interactive chat interface.
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "scout - conversational shopping assistant",
	Long: `scout is a terminal client for the shopping recommendation service.

Describe what you want to buy, answer the clarifying questions, and scout
returns recommended products with prices, retail listings and review
summaries. Conversations are follow-up aware: refinements like "cheaper"
or "only Lenovo" build on what you already told it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.Service.BaseURL = apiURL
		}
		if modelChoice != "" {
			switch modelChoice {
			case api.ModelPerplexity, api.ModelOpenAI, api.ModelHybrid:
				cfg.Service.ModelChoice = modelChoice
			default:
				return fmt.Errorf("unknown model %q: choose perplexity, openai or hybrid", modelChoice)
			}
		}
		return chat.Run(configPath, cfg, logger)
	},
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scout version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scout %s\n", Version)
	},
}

// configInitCmd writes the default config file for editing.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config already exists at %s", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", configPath)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage scout configuration",
}

// buildLogger logs to a file next to the config. The chat interface owns the
// terminal, so nothing may write to stdout or stderr while it runs.
func buildLogger() (*zap.Logger, error) {
	logPath := filepath.Join(filepath.Dir(configPath), "scout.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return zap.NewNop(), nil
	}

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{logPath}
	zcfg.ErrorOutputPaths = []string{logPath}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.Flags().StringVar(&apiURL, "api-url", "", "Recommendation service URL (overrides config)")
	rootCmd.Flags().StringVar(&modelChoice, "model", "", "AI model: perplexity, openai or hybrid")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
