// =============================================================================
// replay.go - Offline Decoding of Recorded Streams
// =============================================================================
//
// `bumper replay` decodes a stream saved with --record, or any file of
// START ... END blocks, through the same framing and block parsers a live
// session uses. A leading PLAYERID line from the login reply is accepted.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacebumper/bumper/bumperprotocol"
)

func replayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file>",
		Short: "Decode a recorded server stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			printer := newEventPrinter(cmd.OutOrStdout(), a.log, a.metrics, opts.raw)
			err = replay(f, printer)
			fmt.Fprintf(cmd.OutOrStdout(), "Replayed %s\n", printer.summary())
			return err
		},
	}
}

// replay decodes every block in r. Malformed blocks are reported and
// skipped; a truncated final block is an error.
func replay(r io.Reader, printer *eventPrinter) error {
	br := bufio.NewReader(r)

	if err := skipLoginReply(br, printer); err != nil {
		return err
	}

	blocks := bumperprotocol.NewBlockReader(br)
	for {
		block, err := blocks.ReadBlock()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !bumperprotocol.IsKind(err, bumperprotocol.ErrKindInvalidServerMessage) {
			return err
		}

		var event bumperprotocol.Event
		if err == nil {
			event, err = bumperprotocol.ParseBlock(block)
		}
		if _, err := printer.handle(eventResult{event: event, err: err}); err != nil {
			return err
		}
	}
}

// skipLoginReply consumes a leading PLAYERID line, if present.
func skipLoginReply(br *bufio.Reader, printer *eventPrinter) error {
	head, err := br.Peek(len(bumperprotocol.LoginResultPrefix))
	if err != nil || !strings.HasPrefix(string(head), bumperprotocol.LoginResultPrefix) {
		return nil
	}

	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	id, err := bumperprotocol.ParseLoginResult(line)
	if err != nil {
		return err
	}
	fmt.Fprintf(printer.out, "Recorded as player %d\n", id)
	return nil
}
