package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sri-maddineni/college-shortlister/config"
	"github.com/sri-maddineni/college-shortlister/database"
	"github.com/sri-maddineni/college-shortlister/model"
	"github.com/sri-maddineni/college-shortlister/services"
	"github.com/sri-maddineni/college-shortlister/services/export"
)

func newListCmd() *cobra.Command {
	var criteria criteriaFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records from the configured database",
		Long: `Connects to the database selected by DB_DRIVER (sqlite by default, see .env)
and prints the records matching the filters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := criteria.resolve(cmd)
			if err != nil {
				return err
			}

			if err := config.LoadENV(); err != nil {
				return err
			}
			getEnv, err := config.Get()
			if err != nil {
				return err
			}
			store, err := database.Open(getEnv)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := services.NewRecordService(store).List(cmd.Context(), c)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}
	criteria.register(cmd)
	return cmd
}

func printRecords(w io.Writer, records []model.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTITUTION\tCOURSE\tLOCATION\tFEE\tDEADLINE\tSTATUS\tEXAMS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.InstitutionName,
			r.CourseName,
			orPlaceholder(r.Location()),
			export.FormatFee(r.TuitionFee),
			export.FormatDate(r.Deadline),
			r.Status.Label(),
			export.FormatExams(r),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d records\n", len(records))
	return err
}

func orPlaceholder(s string) string {
	if s == "" {
		return export.Placeholder
	}
	return s
}
