package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sri-maddineni/college-shortlister/services/export"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE.pdf",
		Short: "Print the records embedded in a PDF export",
		Long: `Every PDF export ends with a machine-readable appendix. extract reads it back
and prints the records as a JSON array that render and the web import accept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			records, err := export.ExtractAppendix(content)
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
}
