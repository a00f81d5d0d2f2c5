package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sri-maddineni/college-shortlister/services"
	"github.com/sri-maddineni/college-shortlister/services/export"
	"github.com/sri-maddineni/college-shortlister/services/query"
)

type renderOptions struct {
	in       string
	out      string
	format   string
	title    string
	criteria criteriaFlags
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a JSON shortlist into a document",
		Long: `Reads records from a JSON array (any export shape, - for stdin), applies the
filters and order, and writes the document. Nothing is stored.

Example:
  shortlist render --in colleges.json --format docx --fee 10000-20000 -o view.docx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.in, "in", "-", "JSON file with the records")
	flags.StringVarP(&opts.out, "out", "o", "", "output file (default: the format's file name, - for stdout)")
	flags.StringVarP(&opts.format, "format", "f", string(export.FormatPDF), "pdf, docx, json or bundle")
	flags.StringVar(&opts.title, "title", export.DefaultTitle, "document title")
	opts.criteria.register(cmd)
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	criteria, err := opts.criteria.resolve(cmd)
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), opts.in)
	if err != nil {
		return err
	}
	records, err := services.DecodeImport(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", opts.in, err)
	}

	view := query.FilterAndSort(records, criteria)
	doc, err := export.Render(cmd.Context(), format, view, export.Options{Title: opts.title})
	if err != nil {
		return err
	}
	for _, w := range doc.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	out := opts.out
	if out == "" {
		out = doc.Filename
	}
	if out == "-" {
		_, err = cmd.OutOrStdout().Write(doc.Bytes)
		return err
	}
	if err := os.WriteFile(out, doc.Bytes, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d of %d records to %s\n", doc.Records, len(records), out)
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
