// =============================================================================
// drive.go - Interactive Driving
// =============================================================================
//
// `bumper drive` steers the ship from a prompt. Two goroutines share the
// session: the prompt loop is its only writer (Accelerate) and the event
// goroutine is its only reader (WaitNext).
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/spf13/cobra"
)

const drivePrompt = "bumper> "

func driveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drive",
		Short: "Steer the ship interactively",
		Long: `Log in and read steering commands from a prompt while events are
printed as they arrive. Type .help at the prompt for the command list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			session, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}

			editor := NewLineEditor()
			defer editor.Close()

			out := editor.Output()
			fmt.Fprint(out, welcomeBanner(session.ID()))
			fmt.Fprintln(out)

			d := &driver{
				session: session,
				input:   editor,
				out:     out,
				printer: newEventPrinter(out, a.log, a.metrics, opts.raw),
			}
			return d.run(cmd.Context())
		},
	}
}

// lineReader supplies prompt lines; *LineEditor implements it. Close must
// unblock a concurrent GetLine.
type lineReader interface {
	GetLine(prompt string) (string, error)
	Close()
}

type driver struct {
	session gameSession
	input   lineReader
	out     io.Writer
	printer *eventPrinter

	// ended is set by the event goroutine once the game is over.
	ended atomic.Bool
}

// run reads commands until .quit, end of input, the end of the game or
// cancellation. A stream failure seen by the event goroutine is returned.
func (d *driver) run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	events := pumpEvents(d.session, stop)

	readerErr := make(chan error, 1)
	go func() {
		readerErr <- d.printEvents(events)
	}()

	if err := d.readCommands(ctx); err != nil {
		return err
	}
	if d.ended.Load() {
		return <-readerErr
	}

	select {
	case err := <-readerErr:
		return err
	default:
		return nil
	}
}

// printEvents prints every result until the game ends or the pump stops.
// Once the game is over the input is closed so the prompt returns.
func (d *driver) printEvents(events <-chan eventResult) error {
	for r := range events {
		done, err := d.printer.handle(r)
		if done {
			d.ended.Store(true)
			d.input.Close()
			return err
		}
	}
	return nil
}

func (d *driver) readCommands(ctx context.Context) error {
	for {
		if d.ended.Load() || ctx.Err() != nil {
			return nil
		}

		line, err := d.input.GetLine(drivePrompt)
		if err == io.EOF {
			fmt.Fprintln(d.out)
			return nil
		}
		if err != nil {
			if d.ended.Load() {
				return nil
			}
			return err
		}
		if d.ended.Load() || ctx.Err() != nil {
			return nil
		}

		cmd, err := translateInput(line)
		if err != nil {
			fmt.Fprintf(d.out, "Error: %v\n", err)
			continue
		}

		switch cmd.action {
		case actionNone:
		case actionQuit:
			return nil
		case actionHelp:
			if err := printHelp(d.out, cmd.topic); err != nil {
				fmt.Fprintf(d.out, "Error: %v\n", err)
			}
		case actionAccelerate:
			if err := d.session.Accelerate(cmd.accel.X, cmd.accel.Y); err != nil {
				return err
			}
			d.printer.metrics.ObserveAcceleration()
			d.printer.log.Debugw("accelerate", "x", cmd.accel.X, "y", cmd.accel.Y)
		}
	}
}
