package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage your own calendar events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := current.ctrl.Events(cmd.Context())
		if err != nil {
			return err
		}
		renderEvents(current.out, events, current.pal)
		return nil
	},
}

var eventsAddCmd = &cobra.Command{
	Use:   "add <YYYY-MM-DD> <title...>",
	Short: "Add an event",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := current.ctrl.AddEvent(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(current.out, "Added %q on %s (%s)\n", ev.Title, ev.Date, ev.ID)
		return nil
	},
}

var eventsRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete an event by id",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.ctrl.DeleteEvent(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(current.out, "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsAddCmd)
	eventsCmd.AddCommand(eventsRmCmd)
}
