package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/eligibility"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/gatesession"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/service"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/store"
	pkgErrors "github.com/vogiaan1904/ticketbottle-parkgate/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/util"
)

var errQuit = errors.New("quit")

const consoleHelp = `commands:
  status                 show gate, selection and connection
  gates                  list gates
  zones                  list zones of the current gate
  tab visitor|subscriber switch customer type
  sub <id>               verify a subscription
  select <zoneId>        select a zone
  checkin                submit the check-in
  goto <gateId>          switch gate
  next | prev            move to the adjacent gate
  refresh                refetch zones of the current gate
  reconnect              restart the realtime feed
  quit                   leave the console`

// console is the line-oriented operator interface of a gate terminal.
type console struct {
	st      store.Store
	gates   gatesession.Controller
	zones   service.ZoneService
	checkin service.CheckinService
	out     io.Writer
}

// run reads commands from in until it is exhausted, the operator quits or
// ctx is done.
func (c *console) run(ctx context.Context, in io.Reader, done <-chan struct{}) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := c.exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(c.out, "error: %s\n", pkgErrors.Message(err))
			}
			c.prompt()
		}
	}
}

func (c *console) prompt() {
	fmt.Fprintf(c.out, "[%s] > ", c.gates.CurrentGate())
}

func (c *console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, consoleHelp)
	case "quit", "exit", "q":
		return errQuit
	case "status":
		c.printStatus()
	case "gates":
		c.printGates()
	case "zones", "ls":
		c.printZones()
	case "tab":
		if len(args) != 1 {
			return fmt.Errorf("usage: tab visitor|subscriber")
		}
		tab := models.UserType(strings.ToLower(args[0]))
		if !tab.Valid() {
			return fmt.Errorf("unknown customer type %q", args[0])
		}
		c.checkin.SelectTab(ctx, tab)
		fmt.Fprintf(c.out, "tab: %s\n", tab)
	case "sub":
		if len(args) != 1 {
			return fmt.Errorf("usage: sub <id>")
		}
		if c.st.Snapshot().SelectedTab != models.UserTypeSubscriber {
			return fmt.Errorf("switch to the subscriber tab first")
		}
		sub, err := c.checkin.VerifySubscription(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "subscription %s: %s, category %s, active %t\n", sub.ID, sub.UserName, sub.Category, sub.Active)
	case "select":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <zoneId>")
		}
		d := c.checkin.SelectZone(ctx, args[0])
		if !d.Allowed {
			fmt.Fprintf(c.out, "zone %s cannot be selected: %s\n", args[0], d.Reason)
			return nil
		}
		fmt.Fprintf(c.out, "selected zone %s\n", args[0])
		c.printEligibility()
	case "checkin":
		res, err := c.checkin.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "ticket %s issued for zone %s at %s\n", res.Ticket.ID, res.Zone.ID, util.FormatDateTime(res.Ticket.CheckinAt))
	case "goto":
		if len(args) != 1 {
			return fmt.Errorf("usage: goto <gateId>")
		}
		return c.enter(ctx, args[0])
	case "next", "prev":
		prev, next := c.st.AdjacentGates(c.gates.CurrentGate())
		target := next
		if cmd == "prev" {
			target = prev
		}
		if target == "" {
			return fmt.Errorf("no %s gate", cmd)
		}
		return c.enter(ctx, target)
	case "refresh":
		gateID := c.gates.CurrentGate()
		if gateID == "" {
			return fmt.Errorf("no gate selected")
		}
		if _, err := c.zones.RefreshZones(ctx, gateID); err != nil {
			return err
		}
		c.printZones()
	case "reconnect":
		c.gates.Reconnect(ctx)
		fmt.Fprintln(c.out, "reconnecting")
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}

func (c *console) enter(ctx context.Context, gateID string) error {
	if err := c.gates.Enter(ctx, gateID); err != nil {
		return err
	}
	c.printZones()
	return nil
}

func (c *console) printStatus() {
	snap := c.st.Snapshot()
	cs := c.checkin.State()

	gate := "-"
	if g := snap.CurrentGate(); g != nil {
		gate = fmt.Sprintf("%s (%s)", g.Name, g.ID)
	} else if snap.CurrentGateID != "" {
		gate = snap.CurrentGateID
	}

	fmt.Fprintf(c.out, "gate:         %s\n", gate)
	fmt.Fprintf(c.out, "realtime:     %s\n", connectionLabel(snap.Connection))
	fmt.Fprintf(c.out, "tab:          %s\n", snap.SelectedTab)
	fmt.Fprintf(c.out, "zone:         %s\n", orDash(snap.SelectedZoneID))
	if snap.SelectedTab == models.UserTypeSubscriber {
		sub := string(cs.Subscription)
		if cs.SubscriptionError != "" {
			sub += ": " + cs.SubscriptionError
		}
		fmt.Fprintf(c.out, "subscription: %s %s\n", orDash(cs.SubscriptionID), sub)
	}
	fmt.Fprintf(c.out, "phase:        %s\n", cs.Phase)
	if cs.LastError != "" {
		fmt.Fprintf(c.out, "last error:   %s\n", cs.LastError)
	}
	c.printEligibility()
}

func (c *console) printEligibility() {
	d := c.checkin.Evaluate()
	if d.Allowed {
		fmt.Fprintln(c.out, "check-in:     ready")
		return
	}
	fmt.Fprintf(c.out, "check-in:     blocked, %s\n", d.Reason)
}

func (c *console) printGates() {
	snap := c.st.Snapshot()
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tLOCATION\tZONES")
	for _, g := range snap.Gates {
		mark := ""
		if g.ID == snap.CurrentGateID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", mark, g.ID, g.Name, g.Location, len(g.ZoneIDs))
	}
	w.Flush()
}

func (c *console) printZones() {
	renderZones(c.out, c.st.Snapshot())
}

// renderZones prints the zone table with the selectability for the
// current tab.
func renderZones(out io.Writer, snap store.State) {
	if len(snap.Zones) == 0 {
		fmt.Fprintln(out, "no zones")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tCATEGORY\tFREE\tVISITORS\tSUBSCRIBERS\tSTATE")
	for _, z := range snap.Zones {
		mark := ""
		if z.ID == snap.SelectedZoneID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%d\t%d\t%s\n",
			mark, z.ID, z.Name, z.CategoryID, z.Free, z.TotalSlots,
			z.AvailableForVisitors, z.AvailableForSubscribers, zoneLabel(z, snap.SelectedTab))
	}
	w.Flush()
}

func zoneLabel(z models.Zone, tab models.UserType) string {
	if !z.Open {
		return "closed"
	}
	if !eligibility.CanSelectZone(&z, tab) {
		return "full"
	}
	return "available"
}

func connectionLabel(cs store.ConnectionStatus) string {
	switch {
	case cs.Connected:
		return "connected"
	case cs.Failed:
		return "failed, type reconnect"
	case cs.ReconnectAttempts > 0:
		return fmt.Sprintf("reconnecting (attempt %d)", cs.ReconnectAttempts)
	default:
		return "disconnected"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
