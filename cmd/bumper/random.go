// =============================================================================
// random.go - Random Direction Driver
// =============================================================================
//
// The random driver is the smallest useful bot: it accelerates in a random
// direction inside the unit square, prints whatever the server sends for
// one event window, and repeats until the game ends.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
)

func randomCmd(opts *options) *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Accelerate in random directions and print events",
		Long: `Log in, accelerate in a random direction with both components in
[-1, 1], print events for one event window, then pick a new direction.
Runs until the server ends the game or the command is interrupted.`,
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
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as player %d\n", session.ID())

			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			d := &randomDriver{
				session: session,
				window:  a.cfg.EventWindow,
				rng:     rand.New(rand.NewPCG(seed, seed>>1|1)),
				printer: newEventPrinter(cmd.OutOrStdout(), a.log, a.metrics, opts.raw),
			}
			err = d.run(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), d.printer.summary())
			return err
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: time based)")
	return cmd
}

type randomDriver struct {
	session gameSession
	window  time.Duration
	rng     *rand.Rand
	printer *eventPrinter
}

// direction returns a random acceleration with both components in [-1, 1).
func (d *randomDriver) direction() (x, y float64) {
	return d.rng.Float64()*2 - 1, d.rng.Float64()*2 - 1
}

// run drives until the game ends, the stream fails or ctx is canceled.
func (d *randomDriver) run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	events := pumpEvents(d.session, stop)

	for {
		x, y := d.direction()
		if err := d.session.Accelerate(x, y); err != nil {
			return err
		}
		d.printer.metrics.ObserveAcceleration()
		d.printer.log.Debugw("accelerate", "x", x, "y", y)

		done, err := d.printWindow(ctx, events)
		if done || err != nil {
			return err
		}
	}
}

// printWindow prints events until the window elapses. done is true when no
// more events will arrive.
func (d *randomDriver) printWindow(ctx context.Context, events <-chan eventResult) (done bool, err error) {
	timer := time.NewTimer(d.window)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case <-timer.C:
			return false, nil
		case r, ok := <-events:
			if !ok {
				return true, nil
			}
			if done, err := d.printer.handle(r); done || err != nil {
				return true, err
			}
		}
	}
}
