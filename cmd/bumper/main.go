// =============================================================================
// main.go - Bumper CLI Entry Point
// =============================================================================
//
// bumper is a command-line client for the SpaceBumper game server. It logs
// in as one player, steers the ship with acceleration commands and prints
// the status, player and map blocks the server streams back.
//
// Usage:
//
//	bumper random                       Accelerate randomly, print events
//	bumper drive                        Steer interactively from a prompt
//	bumper replay game.log              Decode a recorded server stream
//	bumper random --launch --port 4000  Start a headless server first
//	bumper version                      Show version
//
// Settings come from an optional YAML file (--config), BUMPER_* environment
// variables and finally command-line flags, in increasing priority.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of the CLI.
	version = "0.3.0"

	// appName is the application name.
	appName = "Bumper"
)

// Build information, set with -ldflags at release time.
var (
	commit = "none"
	date   = "unknown"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s (Go)", appName, version)
}

// welcomeBanner returns the banner displayed when interactive driving starts.
func welcomeBanner(playerID int) string {
	return fmt.Sprintf(`%s - SpaceBumper client
Logged in as player %d.

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), playerID)
}

// =============================================================================
// Root Command
// =============================================================================

// GO CONCEPT: cobra Commands
// --------------------------
// cobra builds a command tree out of *cobra.Command values. Flags declared
// with PersistentFlags() on the root are inherited by every subcommand, so
// connection settings are parsed once and shared by random, drive and
// replay. Each subcommand only declares what is specific to it.

// newRootCmd builds the command tree. opts receives the parsed flags.
func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bumper",
		Short: "SpaceBumper game client",
		Long: `bumper connects to a SpaceBumper server, logs in as a player and
steers the ship while printing the game state the server streams.

Connection settings are read from --config, then BUMPER_* environment
variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.bind(rootCmd)

	rootCmd.AddCommand(
		randomCmd(opts),
		driveCmd(opts),
		replayCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// printError prints an error message to stderr.
func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// =============================================================================
// Signal Handling
// =============================================================================

// setupSignalHandler cancels the returned context on SIGINT or SIGTERM so
// running commands close their session and stop a launched server.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			fmt.Println()
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func main() {
	ctx, cancel := setupSignalHandler(context.Background())

	err := newRootCmd(&options{}).ExecuteContext(ctx)
	cancel()
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
