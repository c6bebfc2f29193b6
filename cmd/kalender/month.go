package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zapponejosh/holiday-widget/internal/widget"
)

var (
	monthYear  int
	monthMonth int
)

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Print a month grid with holidays and events",
	Long: `Print one month as a Sunday-first grid. Holidays are marked with "*",
days with your events with "+". Defaults to the current month.`,
	RunE: runMonth,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through months interactively",
	Long: `Page through months with single keys:

  h / l   previous / next month
  H / L   previous / next year
  t       back to today
  q       quit`,
	RunE: runBrowse,
}

func init() {
	monthCmd.Flags().IntVar(&monthYear, "year", 0, "Year (defaults to this year)")
	monthCmd.Flags().IntVar(&monthMonth, "month", 0, "Month 1-12 (defaults to this month)")
}

func runMonth(cmd *cobra.Command, args []string) error {
	now := current.ctrl.Now()
	year, month := now.Year(), now.Month()
	if monthYear != 0 {
		year = monthYear
	}
	if monthMonth != 0 {
		if monthMonth < 1 || monthMonth > 12 {
			return fmt.Errorf("--month must be between 1 and 12, got %d", monthMonth)
		}
		month = time.Month(monthMonth)
	}

	view, err := current.ctrl.MonthView(cmd.Context(), year, month)
	if err != nil {
		return err
	}
	renderMonth(current.out, view, current.pal)
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("browse needs an interactive terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	out := crlfWriter{w: current.out}
	keys := bufio.NewReader(os.Stdin)

	for {
		view, err := current.ctrl.View(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(out, "\x1b[H\x1b[2J")
		renderMonth(out, view, current.pal)
		fmt.Fprint(out, "\n"+current.pal.dim("h/l month  H/L year  t today  q quit")+"\n")

		key, err := keys.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if applyKey(current.ctrl, key) {
			return nil
		}
	}
}

// applyKey moves the controller's view for one keypress and reports whether
// the key asks to quit.
func applyKey(ctrl *widget.Controller, key byte) (quit bool) {
	switch key {
	case 'h':
		ctrl.ChangeMonth(-1)
	case 'l':
		ctrl.ChangeMonth(1)
	case 'H':
		ctrl.ChangeYear(-1)
	case 'L':
		ctrl.ChangeYear(1)
	case 't':
		ctrl.GoToToday()
	case 'q', 3, 4: // q, Ctrl-C, Ctrl-D
		return true
	}
	return false
}
