// =============================================================================
// help.go - Drive Prompt Help
// =============================================================================

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// helpTopics holds the detailed help text per topic, keyed by lowercase
// name without a leading dot.
var helpTopics = map[string]string{
	"accelerate": `Accelerate
  <x> <y>     Send acceleration (x, y), e.g. "0.5 -1"
  <x>,<y>     Same, comma separated
  <x>|<y>     Same, in wire format

  Components are decimal numbers. The server applies the vector on its
  next tick; there is no reply.`,

	"directions": `Directions
  up [m]      Accelerate upward (0, -m)
  down [m]    Accelerate downward (0, m)
  left [m]    Accelerate left (-m, 0)
  right [m]   Accelerate right (m, 0)
  stop        Zero acceleration

  The magnitude m defaults to 1.`,

	"help": `.help [topic]
  Show the command overview, or details for one topic.`,

	"quit": `.quit
  Close the session and leave the prompt. .exit does the same.`,
}

// printHelp writes the overview, or the text for topic, to w.
func printHelp(w io.Writer, topic string) error {
	if topic == "" {
		printHelpOverview(w)
		return nil
	}

	key := strings.TrimPrefix(strings.ToLower(topic), ".")
	if key == "exit" {
		key = "quit"
	}
	text, ok := helpTopics[key]
	if !ok {
		return fmt.Errorf("no help for '%s', topics: %s", topic, strings.Join(helpTopicNames(), ", "))
	}
	fmt.Fprintln(w, text)
	return nil
}

func printHelpOverview(w io.Writer) {
	fmt.Fprint(w, `Commands:
  <x> <y>           Accelerate by (x, y)
  up|down|left|right [m]
                    Accelerate in a direction
  stop              Zero acceleration
  .help [topic]     Show help (or help for a specific topic)
  .quit             Leave the game

Events from the server are printed as they arrive.
`)
}

// helpTopicNames returns the topic names in sorted order.
func helpTopicNames() []string {
	names := make([]string, 0, len(helpTopics))
	for name := range helpTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
