// Package commands defines all Cobra CLI commands for the aibot binary.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/audit"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/config"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aibot",
		Short: "AIBot — document question answering powered by DeepSeek",
		Long: `AIBot ingests PDF and plain-text documents, indexes their content, and
answers natural language questions grounded in the most relevant passages.

Documents can be uploaded over HTTP or fetched by URL. Answers come from the
configured generation backend (DeepSeek by default; Ollama, OpenAI, and
Gemini are also supported via GENERATOR_PROVIDER).

Configuration is read from environment variables or a YAML config file
(~/.aibot/config.yaml). See 'aibot --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; missing file is not an error.
			_ = godotenv.Load()

			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.aibot/config.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewAskCmd(),
		NewIngestCmd(),
		NewVersionCmd(),
	)

	return root
}
