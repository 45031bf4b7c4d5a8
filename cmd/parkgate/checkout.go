package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/util"
)

var forceVisitor bool

var checkoutCmd = &cobra.Command{
	Use:   "checkout <ticketID>",
	Short: "Check a ticket out at the checkpoint station",
	Long: `Check a ticket out and print the amount due.

--force-visitor bills a subscriber ticket at visitor rates, for example
when the subscription expired while the car was parked.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckout,
}

func init() {
	checkoutCmd.Flags().BoolVar(&forceVisitor, "force-visitor", false, "bill the ticket at visitor rates")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	return withApp(false, func(ctx context.Context, a *app) error {
		res, err := a.checkout.Checkout(ctx, args[0], forceVisitor)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Ticket:    %s\n", res.TicketID)
		fmt.Fprintf(out, "Check-in:  %s\n", util.FormatDateTime(res.CheckinAt))
		fmt.Fprintf(out, "Check-out: %s\n", util.FormatDateTime(res.CheckoutAt))
		fmt.Fprintf(out, "Duration:  %s\n", util.FormatHours(res.DurationHours))
		fmt.Fprintf(out, "Amount:    %s\n", util.FormatAmount(res.Amount))

		if len(res.Breakdown) > 0 {
			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FROM\tTO\tRATE\tHOURS\tAMOUNT")
			for _, seg := range res.Breakdown {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					util.FormatDateTime(seg.From), util.FormatDateTime(seg.To),
					seg.RateMode, util.FormatHours(seg.Hours), util.FormatAmount(seg.Amount))
			}
			w.Flush()
		}
		return nil
	})
}
