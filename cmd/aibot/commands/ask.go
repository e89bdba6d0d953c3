package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/logging"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/pipeline"
)

// NewAskCmd constructs the `aibot ask` command, which ingests one or more
// documents and answers a single question in one shot.
func NewAskCmd() *cobra.Command {
	var files []string
	var url string
	var showSources bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about one or more documents",
		Long: `Ingest the given documents and answer a single question against them.

Documents are supplied with --file (repeatable) or --url. The question is
answered by the configured generation backend, grounded in the most relevant
passages.

Examples:
  aibot ask --file report.pdf "what is the total revenue?"
  aibot ask --file a.pdf --file b.pdf "which document mentions the merger?"
  aibot ask --url https://example.com/whitepaper.pdf "who are the authors?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 && url == "" {
				return fmt.Errorf("ask: at least one --file or a --url is required")
			}

			log := logging.New()
			ctx := logging.WithLogger(cmd.Context(), log)

			session, _, err := buildSession(ctx, log, nil)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer func() { _ = session.Close() }()

			var sources []pipeline.Source
			for _, f := range files {
				data, err := os.ReadFile(f)
				if err != nil {
					return fmt.Errorf("ask: could not read %s: %w", f, err)
				}
				sources = append(sources, pipeline.Source{Name: filepath.Base(f), Data: data})
			}

			var status *pipeline.Status
			if len(sources) > 0 {
				status, err = session.Ingest(ctx, sources)
			} else {
				status, err = session.IngestURL(ctx, url)
			}
			if err != nil {
				return fmt.Errorf("ask: %s", status.Headline)
			}

			answer, err := session.Answer(ctx, args[0])
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(answer.Text)
			if showSources {
				fmt.Println()
				for _, p := range answer.Supporting {
					fmt.Printf("  [%.3f] %s (passage %d)\n", p.Score, p.Passage.Source, p.Passage.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "Document to ingest (repeatable)")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Document URL to download and ingest")
	cmd.Flags().BoolVar(&showSources, "sources", false, "Print the supporting passages after the answer")

	return cmd
}
