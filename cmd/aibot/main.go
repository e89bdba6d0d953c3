// Command aibot is the entry point for the AIBot document question
// answering service. It provides a CLI interface (via Cobra) for one-shot
// questions and ingestion, plus an HTTP server exposing the document QA API.
package main

import (
	"fmt"
	"os"

	"github.com/Thakur123-Bool/Aibotdeepseek/cmd/aibot/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
