package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
)

var gateCmd = &cobra.Command{
	Use:   "gate [gateID]",
	Short: "Run the check-in console of a gate",
	Long: `Run the interactive check-in console of a gate terminal.

The gate list and the zones of the requested gate are loaded together;
without a gate ID the first gate is used.
The console subscribes to live zone availability of the current gate and
re-subscribes after every reconnection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGate,
}

func runGate(cmd *cobra.Command, args []string) error {
	return withApp(true, func(ctx context.Context, a *app) error {
		gateID := ""
		if len(args) == 1 {
			gateID = args[0]
		}

		// Gates and the requested gate's zones load concurrently; Enter
		// then reads the zones from the warm query cache.
		if err := a.zones.Bootstrap(ctx, gateID); err != nil {
			return fmt.Errorf("failed to load gates and zones: %w", err)
		}

		if gateID == "" {
			gates := a.st.Snapshot().Gates
			if len(gates) == 0 {
				return fmt.Errorf("no gates configured")
			}
			gateID = gates[0].ID
		}

		unwatch := a.st.Watch(connectionPrinter(cmd.OutOrStdout()))
		defer unwatch()

		c := &console{
			st:      a.st,
			gates:   a.gates,
			zones:   a.zones,
			checkin: a.checkin,
			out:     cmd.OutOrStdout(),
		}
		if err := c.enter(ctx, gateID); err != nil {
			return fmt.Errorf("failed to enter gate %s: %w", gateID, err)
		}

		l.Infof(ctx, "parkgate.gate: console started on gate %s", gateID)
		return c.run(ctx, os.Stdin, a.loggedOut)
	})
}

// connectionPrinter reports realtime connection changes on the console.
func connectionPrinter(out io.Writer) store.Listener {
	return func(prev, next store.State) {
		if prev.Connection == next.Connection {
			return
		}
		fmt.Fprintf(out, "\nrealtime: %s\n", connectionLabel(next.Connection))
	}
}
