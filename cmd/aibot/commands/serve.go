package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/history"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/logging"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/pipeline"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/server"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/tracing"
)

// NewServeCmd constructs the `aibot serve` command, which starts the HTTP
// server exposing the document question-answering API.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the AIBot HTTP server",
		Long: `Start the AIBot HTTP server on localhost.

The server exposes the document ingestion and question-answering API:
documents are uploaded via POST /upload_documents/ or fetched via
POST /process_url/, and questions are answered via POST /ask_question/.

Examples:
  aibot serve
  aibot serve --port 9000
  GENERATOR_PROVIDER=ollama aibot serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)
			slog.SetDefault(log)

			log.Info("serve starting", slog.String("backend", getEnvOrDefault("GENERATOR_PROVIDER", "deepseek")))

			// Setup Langfuse tracing — opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			// Open question history store. AIBOT_HISTORY_DB overrides the
			// default path (~/.aibot/history.db). Set to "disabled" to disable.
			var historyStore history.Store
			dbPath := os.Getenv("AIBOT_HISTORY_DB")
			if dbPath != "disabled" {
				var err error
				if dbPath == "" {
					dbPath, err = history.DefaultDBPath()
					if err != nil {
						log.Warn("history: could not resolve default DB path, disabling", slog.Any("error", err))
					}
				}
				if dbPath != "" {
					hs, hsErr := history.Open(dbPath)
					if hsErr != nil {
						log.Warn("history: failed to open store, disabling", slog.Any("error", hsErr))
					} else {
						historyStore = hs
						defer func() { _ = hs.Close() }()
						log.Info("history: store opened", slog.String("path", dbPath))
					}
				}
			} else {
				log.Info("history: disabled via AIBOT_HISTORY_DB=disabled")
			}

			var pipelineHistory pipeline.History
			if historyStore != nil {
				pipelineHistory = historyStore
			}

			session, qdrantStore, err := buildSession(ctx, log, pipelineHistory)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer func() { _ = session.Close() }()

			// Flags win over env; env wins over the built-in defaults.
			if host == "" {
				host = getEnvOrDefault("AIBOT_HOST", "127.0.0.1")
			}
			if port == 0 {
				port = getEnvInt("AIBOT_PORT", 8000)
			}

			srv, err := server.New(session, &server.Config{
				Host:    host,
				Port:    port,
				Logger:  log,
				Pingers: buildPingers(qdrantStore),
				History: historyStore,
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address to bind to (default: 127.0.0.1)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "TCP port to listen on (default: 8000)")

	return cmd
}
