package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/holiday-widget/internal/export"
)

var (
	exportYear   int
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export holidays and events as iCalendar",
	Long: `Write one year's holidays and all of your events as an .ics file that
calendar apps can import or subscribe to.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "Year (defaults to this year)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "File to write (defaults to stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	year := exportYear
	if year == 0 {
		year = current.ctrl.Now().Year()
	}

	events, err := current.ctrl.Events(cmd.Context())
	if err != nil {
		return err
	}

	w := current.out
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := (export.Feed{}).Write(w, year, current.ctrl.Holidays(year), events); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d holidays and %d events to %s\n",
			len(current.ctrl.Holidays(year)), len(events), exportOutput)
	}
	return nil
}
