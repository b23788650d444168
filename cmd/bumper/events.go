// =============================================================================
// events.go - Event Reception and Display
// =============================================================================
//
// A session hands out one event per WaitNext call and blocks in between.
// pumpEvents moves those calls onto a goroutine so commands can wait for
// events, timers and cancellation in a single select. The session contract
// allows one reader and one writer, so the pump is the only reader and the
// command goroutine remains the only writer.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spacebumper/bumper/bumperprotocol"
	"github.com/spacebumper/bumper/internal/metrics"
)

// eventResult is one WaitNext outcome.
type eventResult struct {
	event bumperprotocol.Event
	err   error
}

// GO CONCEPT: Receive-Only Channels
// ---------------------------------
// Returning <-chan eventResult instead of chan eventResult lets the
// compiler reject sends and closes from the caller. Only pumpEvents,
// which owns the channel, can close it.

// pumpEvents calls WaitNext until the game ends or the stream fails and
// delivers every result on the returned channel, which is closed afterwards.
// Decode errors are delivered and the pump continues. Closing stop ends the
// pump after the current WaitNext returns.
func pumpEvents(s gameSession, stop <-chan struct{}) <-chan eventResult {
	out := make(chan eventResult)
	go func() {
		defer close(out)
		for {
			event, err := s.WaitNext()
			select {
			case out <- eventResult{event: event, err: err}:
			case <-stop:
				return
			}
			if isFinal(event, err) {
				return
			}
		}
	}()
	return out
}

// isFinal reports whether no further events can follow this result.
func isFinal(event bumperprotocol.Event, err error) bool {
	if err != nil {
		return !bumperprotocol.IsKind(err, bumperprotocol.ErrKindInvalidServerMessage)
	}
	return event.Type == bumperprotocol.EventGameEnded
}

// eventPrinter prints events, counts them and keeps per-type totals.
type eventPrinter struct {
	out     io.Writer
	log     *zap.SugaredLogger
	metrics *metrics.Recorder

	// raw prints blocks in wire format instead of the summary form.
	raw bool

	counts       map[bumperprotocol.EventType]int
	decodeErrors int
}

func newEventPrinter(out io.Writer, log *zap.SugaredLogger, rec *metrics.Recorder, raw bool) *eventPrinter {
	return &eventPrinter{
		out:     out,
		log:     log,
		metrics: rec,
		raw:     raw,
		counts:  make(map[bumperprotocol.EventType]int),
	}
}

// handle processes one result. done is true once the game has ended. A
// decode error is reported and skipped; any other error is returned.
func (p *eventPrinter) handle(r eventResult) (done bool, err error) {
	if r.err != nil {
		if !bumperprotocol.IsKind(r.err, bumperprotocol.ErrKindInvalidServerMessage) {
			return true, r.err
		}
		p.decodeErrors++
		p.metrics.ObserveDecodeError()
		p.log.Warnw("skipping malformed block", "error", r.err)
		fmt.Fprintf(p.out, "*** Skipping malformed block: %v\n", r.err)
		return false, nil
	}

	event := r.event
	p.counts[event.Type]++
	p.metrics.ObserveEvent(event.Type.String())
	p.log.Debugw("event", "type", event.Type.String())

	if event.Type == bumperprotocol.EventGameEnded {
		fmt.Fprintln(p.out, "*** Game ended")
		return true, nil
	}
	if p.raw {
		fmt.Fprint(p.out, event.Format())
	} else {
		fmt.Fprint(p.out, describeEvent(event))
	}
	return false, nil
}

// summary returns the per-type event totals on one line.
func (p *eventPrinter) summary() string {
	return fmt.Sprintf("%d status, %d player, %d map blocks, %d malformed",
		p.counts[bumperprotocol.EventStatus],
		p.counts[bumperprotocol.EventPlayer],
		p.counts[bumperprotocol.EventMap],
		p.decodeErrors)
}

// describeEvent renders an event for humans, one or more lines.
func describeEvent(event bumperprotocol.Event) string {
	var sb strings.Builder
	switch event.Type {
	case bumperprotocol.EventStatus:
		s := event.Status
		fmt.Fprintf(&sb, "status  iteration=%d endtime=%d max-update=%s max-players=%d\n",
			s.Iteration, s.EndTime, s.MaxUpdateTime, s.MaxPlayers)

	case bumperprotocol.EventPlayer:
		fmt.Fprintf(&sb, "player  %d player(s)\n", len(event.Players.Players))
		for _, p := range event.Players.Players {
			state := "alive"
			if !p.Alive {
				state = "dead"
			}
			fmt.Fprintf(&sb, "  #%d %-19s %-6s pos=(%.1f,%.1f) vel=(%.2f,%.2f) score=%d %s\n",
				p.ID, p.Name, p.Color, p.Position.X, p.Position.Y,
				p.Velocity.X, p.Velocity.Y, p.Score, state)
		}

	case bumperprotocol.EventMap:
		width := 0
		for _, row := range event.Map.Rows {
			width = max(width, len(row))
		}
		fmt.Fprintf(&sb, "map     %dx%d\n", width, len(event.Map.Rows))

	case bumperprotocol.EventGameEnded:
		sb.WriteString("game ended\n")
	}
	return sb.String()
}
