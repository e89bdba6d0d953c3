package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/version"
)

// NewVersionCmd constructs the `aibot version` subcommand.
// It prints the binary version, git commit, and build date injected at
// build time via -ldflags. Falls back to "dev"/"unknown" for local builds.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aibot version, git commit, and build date",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aibot %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.BuildDate)
		},
	}
}
