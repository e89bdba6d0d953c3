package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/logging"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/pipeline"
)

// NewIngestCmd constructs the `aibot ingest` command, which runs the document
// ingestion pipeline and prints the processing trail. Combined with
// INDEX_BACKEND=qdrant the indexed corpus survives across invocations, so a
// later `aibot serve` can answer questions against it.
func NewIngestCmd() *cobra.Command {
	var files []string
	var url string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest documents into the vector index",
		Long: `Extract, chunk, embed, and index the given documents.

With the default in-memory index this is mainly useful to validate that a
set of documents extracts cleanly. With INDEX_BACKEND=qdrant the index is
written to the configured Qdrant collection and persists across runs.

Required environment variables for the qdrant backend:
  QDRANT_HOST          Qdrant server hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION    Collection name (default: aibot-docs)
  QDRANT_API_KEY       Optional API key for authenticated clusters

Examples:
  aibot ingest --file report.pdf
  aibot ingest --file a.pdf --file b.txt
  INDEX_BACKEND=qdrant aibot ingest --url https://example.com/whitepaper.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Ingestion replaces the whole index, so files and a URL cannot
			// be combined in one run.
			if len(files) == 0 && url == "" {
				return fmt.Errorf("ingest: at least one --file or a --url is required")
			}
			if len(files) > 0 && url != "" {
				return fmt.Errorf("ingest: --file and --url are mutually exclusive")
			}

			log := logging.New()
			ctx := logging.WithLogger(cmd.Context(), log)

			session, _, err := buildSession(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer func() { _ = session.Close() }()

			var sources []pipeline.Source
			for _, f := range files {
				data, err := os.ReadFile(f)
				if err != nil {
					return fmt.Errorf("ingest: could not read %s: %w", f, err)
				}
				sources = append(sources, pipeline.Source{Name: filepath.Base(f), Data: data})
			}

			var status *pipeline.Status
			if len(sources) > 0 {
				status, err = session.Ingest(ctx, sources)
			} else {
				status, err = session.IngestURL(ctx, url)
			}
			fmt.Println(status.String())
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			log.Info("ingestion complete", slog.Int("passages", session.PassageCount()))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "Document to ingest (repeatable)")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Document URL to download and ingest")

	return cmd
}
