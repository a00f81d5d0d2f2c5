// Command shortlist renders and inspects college shortlists without the web UI.
//
//	shortlist render --in colleges.json --format pdf -o colleges.pdf --sort fee-asc
//	shortlist extract colleges.pdf
//	shortlist list --status applied
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shortlist",
		Short: "Filter, sort and export a college shortlist",
		Long: `shortlist works on the same records as the web app.

render turns a JSON export into a PDF, Word, JSON or zip document offline.
extract recovers the records embedded in a PDF export.
list prints the records held by the configured database.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRenderCmd(), newExtractCmd(), newListCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
