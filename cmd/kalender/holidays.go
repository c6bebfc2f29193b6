package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/dataset"
)

var (
	holidaysYear     int
	holidaysUpcoming int
	datasetFormat    string
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List public holidays",
	Long: `List the public holidays of a year in dataset order, or with --upcoming
the next N holidays of this year from today on.`,
	RunE: runHolidays,
}

var easterCmd = &cobra.Command{
	Use:   "easter [year]",
	Short: "Show Easter Sunday and the holidays around it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEaster,
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Print the active holiday rule set",
	Long: `Print the holiday rules currently in use as JSON or YAML. The output
can be edited and pointed to with HOLIDAYS_PATH.`,
	RunE: runDataset,
}

func init() {
	holidaysCmd.Flags().IntVar(&holidaysYear, "year", 0, "Year (defaults to this year)")
	holidaysCmd.Flags().IntVar(&holidaysUpcoming, "upcoming", 0, "Show the next N holidays instead")
	datasetCmd.Flags().StringVar(&datasetFormat, "format", "yaml", "Output format: yaml or json")
}

func runHolidays(cmd *cobra.Command, args []string) error {
	if holidaysUpcoming > 0 {
		renderHolidays(current.out, current.ctrl.Upcoming(holidaysUpcoming), current.pal)
		return nil
	}

	year := holidaysYear
	if year == 0 {
		year = current.ctrl.Now().Year()
	}
	renderHolidays(current.out, current.ctrl.Holidays(year), current.pal)
	return nil
}

func runEaster(cmd *cobra.Command, args []string) error {
	year := current.ctrl.Now().Year()
	if len(args) == 1 {
		y, err := strconv.Atoi(args[0])
		if err != nil || y < calendar.MinYear || y > calendar.MaxYear {
			return fmt.Errorf("year must be between %d and %d, got %q", calendar.MinYear, calendar.MaxYear, args[0])
		}
		year = y
	}

	p := current.pal
	rows := []struct {
		name   string
		offset int
	}{
		{"Good Friday", calendar.OffsetGoodFriday},
		{"Easter Sunday", 0},
		{"Easter Monday", calendar.OffsetEasterMonday},
		{"Ascension Day", calendar.OffsetAscension},
		{"Pentecost", calendar.OffsetPentecost},
	}
	for _, r := range rows {
		d := calendar.EasterOffset(year, r.offset)
		fmt.Fprintf(current.out, "%-14s %s  %s\n", r.name, p.bold(calendar.FormatDate(d)), d.Weekday())
	}
	return nil
}

func runDataset(cmd *cobra.Command, args []string) error {
	var format dataset.Format
	switch datasetFormat {
	case "yaml", "yml":
		format = dataset.FormatYAML
	case "json":
		format = dataset.FormatJSON
	default:
		return fmt.Errorf("--format must be yaml or json, got %q", datasetFormat)
	}
	return dataset.Encode(current.out, current.ctrl.State().Rules, format)
}
