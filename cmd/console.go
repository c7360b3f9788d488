package cmd

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/health"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run an interactive line-based harbor console",
	Long: `Run an interactive console that keeps the harbor open between commands.

Lines are split like a shell, so quoted arguments work. Type "help" for the
list of commands. The harbor is saved when the console exits.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

const consoleHelp = `Commands:
  add [kind [code weight speed characteristic]]  offer a boat
  remove <id>...                                 remove boats
  tick [days]                                    advance the date
  status                                         harbor summary
  boats                                          berthed boats
  away                                           turned-away boats
  slots [all]                                    dock slots
  kinds                                          boat kinds
  log [n]                                        audit log tail
  sim start|stop                                 background simulation
  save | load                                    snapshot the harbor
  reset [size...]                                empty the harbor
  help                                           this text
  quit                                           save and exit
`

// errQuit ends the console loop.
var errQuit = stderrors.New("quit")

func runConsole(cmd *cobra.Command, args []string) error {
	return withHarbor(cmd, true, func(ctl *control.Control) error {
		c := &console{cmd: cmd, ctl: ctl, out: cmd.OutOrStdout()}
		return c.run(cmd.InOrStdin())
	})
}

type console struct {
	cmd *cobra.Command
	ctl *control.Control
	out io.Writer
}

func (c *console) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(c.out, "harbor> ")
	for scanner.Scan() {
		words, err := shellquote.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		} else if len(words) > 0 {
			err := c.exec(words[0], words[1:])
			if err == errQuit {
				return nil
			}
			if err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
		}
		fmt.Fprint(c.out, "harbor> ")
	}
	fmt.Fprintln(c.out)
	return scanner.Err()
}

func (c *console) exec(name string, args []string) error {
	ctx := c.cmd.Context()
	switch strings.ToLower(name) {
	case "add":
		return c.add(args)
	case "remove", "rm":
		if len(args) == 0 {
			return errors.ValidationError("remove needs at least one identity code")
		}
		for _, id := range args {
			b, err := c.ctl.Remove(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s removed\n", b.IdentityCode())
		}
		return nil
	case "tick":
		days, err := optionalInt(args, 1)
		if err != nil {
			return err
		}
		if err := control.CheckTickDays(days); err != nil {
			return err
		}
		left := c.ctl.TickDays(days)
		fmt.Fprintf(c.out, "date is now %s, %d left\n", c.ctl.Stats().Date, len(left))
		return nil
	case "status", "stats":
		if err := writeStats(c.out, c.ctl.Stats()); err != nil {
			return err
		}
		return writeHealth(c.out, health.Check(ctx, c.ctl, time.Time{}))
	case "boats", "ls":
		var boats []*boat.Boat
		c.ctl.View(func(h port.Harbor) { boats = h.Boats() })
		return writeBoats(c.out, boats)
	case "away":
		return writeBoats(c.out, c.ctl.TurnedAway())
	case "slots":
		all := len(args) > 0 && args[0] == "all"
		return writeSlots(c.out, c.ctl.Rows(), all)
	case "kinds":
		return writeKinds(c.out)
	case "log":
		n, err := optionalInt(args, 10)
		if err != nil {
			return err
		}
		lines, err := c.ctl.LogLines(n)
		if err != nil {
			return err
		}
		return writeLines(c.out, lines)
	case "sim", "simulate":
		return c.simulate(args)
	case "save":
		if err := c.ctl.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "saved")
		return nil
	case "load":
		if err := c.ctl.Load(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "loaded")
		return nil
	case "reset":
		sizes := make([]int, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return errors.ValidationError(fmt.Sprintf("dock size %q is not a number", a))
			}
			sizes = append(sizes, n)
		}
		if err := c.ctl.Reset(sizes); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "harbor reset")
		return nil
	case "help", "?":
		_, err := io.WriteString(c.out, consoleHelp)
		return err
	case "quit", "exit", "q":
		return errQuit
	default:
		return errors.ValidationError(fmt.Sprintf("unknown command %q, try help", name))
	}
}

func (c *console) add(args []string) error {
	var (
		b   *boat.Boat
		ok  bool
		err error
	)
	switch len(args) {
	case 0:
		b, ok, err = c.ctl.AddRandom()
	case 1, 5:
		kind, kerr := boat.ParseKind(args[0])
		if kerr != nil {
			return errors.ValidationError(kerr.Error())
		}
		if len(args) == 1 {
			b = boat.RandomOf(app.Default.Rand, kind)
		} else {
			vals := make([]int, 3)
			for i, a := range args[2:] {
				vals[i], err = strconv.Atoi(a)
				if err != nil {
					return errors.ValidationError(fmt.Sprintf("%q is not a number", a))
				}
			}
			b, err = boat.NewWithCode(kind, args[1], vals[0], vals[1], vals[2])
			if err != nil {
				return err
			}
		}
		ok, err = c.ctl.Add(b)
	default:
		return errors.ValidationError("usage: add [kind [code weight speed characteristic]]")
	}
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(c.out, "%s found space at the harbor\n", b.IdentityCode())
	} else {
		fmt.Fprintf(c.out, "%s was turned away due to lack of space\n", b.IdentityCode())
	}
	return nil
}

func (c *console) simulate(args []string) error {
	if len(args) != 1 {
		return errors.ValidationError("usage: sim start|stop")
	}
	switch args[0] {
	case "start":
		if !c.ctl.StartSimulation(c.cmd.Context()) {
			return errors.ValidationError("simulation is already running")
		}
		fmt.Fprintln(c.out, "simulation started")
	case "stop":
		if err := c.ctl.StopSimulation(c.cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "simulation stopped")
	default:
		return errors.ValidationError("usage: sim start|stop")
	}
	return nil
}

func optionalInt(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.ValidationError(fmt.Sprintf("%q is not a number", args[0]))
	}
	return n, nil
}
